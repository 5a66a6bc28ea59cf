// Package resilience provides the bulkhead that bounds how many
// transcription pipelines run at once.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "pipeline",
//	    MaxConcurrent: 4,
//	    MaxWait:       15 * time.Minute,
//	})
//	out, err := resilience.ExecuteWithResult(bh, ctx, func() (string, error) {
//	    return run(ctx)
//	})
package resilience
