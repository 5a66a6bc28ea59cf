package provider

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/whisper-mcp/component"
)

// DefaultCheckTimeout bounds each availability probe run by CheckAll.
const DefaultCheckTimeout = 3 * time.Second

// CheckAll probes every provider concurrently and reports each as a
// component health entry, preserving argument order.
func CheckAll(ctx context.Context, timeout time.Duration, providers ...Provider) []component.Health {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	results := make([]component.Health, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			h := component.Health{Name: p.Name(), Status: component.StatusHealthy}
			if !p.IsAvailable(checkCtx) {
				h.Status = component.StatusUnhealthy
				h.Message = "unreachable"
			}
			results[i] = h
		}(i, p)
	}
	wg.Wait()
	return results
}
