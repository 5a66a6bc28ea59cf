// Package provider defines the contract shared by the remote collaborators
// of the pipeline (the ffmpeg conversion service and the whisper ASR
// service) and composable middleware around their calls.
//
// Each pipeline stage is a RequestResponse[I, O]. Cross-cutting behavior is
// layered with Chain:
//
//	stage := provider.Chain(
//	    provider.WithLogging[*audio.Asset, []byte](log),
//	    provider.WithMetrics[*audio.Asset, []byte](metrics),
//	    provider.WithTracing[*audio.Asset, []byte]("whisper-mcp"),
//	)(transcoder)
//
// CheckAll turns IsAvailable probes into component health reports for the
// /health endpoint.
package provider
