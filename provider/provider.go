package provider

import "context"

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse represents a provider that takes one input and returns one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Closeable is optionally implemented by providers that hold resources
// requiring explicit cleanup, such as pooled connections.
type Closeable interface {
	Close(ctx context.Context) error
}

// Func adapts a plain function into a RequestResponse. Availability is
// delegated to base, which may be nil for always-available stages.
func Func[I, O any](name string, base Provider, fn func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return &funcRR[I, O]{name: name, base: base, fn: fn}
}

type funcRR[I, O any] struct {
	name string
	base Provider
	fn   func(ctx context.Context, input I) (O, error)
}

func (f *funcRR[I, O]) Name() string { return f.name }

func (f *funcRR[I, O]) IsAvailable(ctx context.Context) bool {
	if f.base == nil {
		return true
	}
	return f.base.IsAvailable(ctx)
}

func (f *funcRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.fn(ctx, input)
}
