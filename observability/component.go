package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/whisper-mcp/component"
	"github.com/kbukum/whisper-mcp/logger"
)

// Telemetry is a lifecycle component owning the tracer and meter providers.
// Disabled sections leave the global no-op providers in place.
type Telemetry struct {
	serviceName string
	version     string
	environment string
	tracing     TracingConfig
	metrics     MetricsConfig

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Telemetry)(nil)

// NewTelemetry creates the telemetry component.
func NewTelemetry(serviceName, version, environment string, tracing TracingConfig, metrics MetricsConfig) *Telemetry {
	tracing.ApplyDefaults()
	metrics.ApplyDefaults()
	return &Telemetry{
		serviceName: serviceName,
		version:     version,
		environment: environment,
		tracing:     tracing,
		metrics:     metrics,
	}
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start implements component.Component.
func (t *Telemetry) Start(ctx context.Context) error {
	if t.tracing.Enabled {
		tp, err := InitTracer(ctx, &TracerConfig{
			ServiceName:    t.serviceName,
			ServiceVersion: t.version,
			Environment:    t.environment,
			Endpoint:       t.tracing.Endpoint,
			Insecure:       t.tracing.Insecure,
			SampleRate:     t.tracing.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		t.tp = tp
	}
	if t.metrics.Enabled {
		mp, err := InitMeter(ctx, &MeterConfig{
			ServiceName:    t.serviceName,
			ServiceVersion: t.version,
			Environment:    t.environment,
			Endpoint:       t.metrics.Endpoint,
			Insecure:       t.metrics.Insecure,
			Interval:       t.metrics.Interval,
		})
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		t.mp = mp
	}
	if t.tp == nil && t.mp == nil {
		logger.Debug("Telemetry disabled")
	}
	return nil
}

// Stop flushes and shuts down whichever providers were started.
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		if err := t.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		t.tp = nil
	}
	if t.mp != nil {
		if err := t.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		t.mp = nil
	}
	return errors.Join(errs...)
}

// Health implements component.Component.
func (t *Telemetry) Health(_ context.Context) component.Health {
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	switch {
	case t.tp != nil && t.mp != nil:
		h.Message = "tracing and metrics exporting"
	case t.tp != nil:
		h.Message = "tracing exporting"
	case t.mp != nil:
		h.Message = "metrics exporting"
	default:
		h.Message = "disabled"
	}
	return h
}
