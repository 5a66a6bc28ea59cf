// Package observability provides OpenTelemetry tracing and metrics for the
// transcription pipeline.
//
// The Telemetry component starts OTLP/HTTP exporters when enabled in
// configuration. Without it the global no-op providers stay installed and
// spans and instruments cost nothing.
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscode)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("whisper-mcp"))
//	metrics.RecordOutcome(ctx, "srt", "")
package observability
