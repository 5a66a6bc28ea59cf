// Package pipeline runs one transcription request end to end.
//
// A Driver sequences five stages: resolve the audio source, convert it to
// MP3 unless it already is, detect the spoken language, transcribe, and
// shape the Outcome. Validation happens before any I/O. Resolve, transcode
// and transcribe failures are terminal; a failed language detection is not
// and only leaves the detected language empty.
//
// Every stage is a provider.RequestResponse wrapped with the provider
// logging, metrics and tracing middleware, and whole runs are admitted
// through a resilience.Bulkhead.
//
//	d, err := pipeline.New(pipeline.Config{}, pipeline.Stages{
//	    Resolver:    resolver,
//	    Transcoder:  ffmpeg,
//	    Detector:    asr,
//	    Transcriber: asr,
//	})
//	out := d.Run(ctx, pipeline.Request{AudioPath: "/data/talk.m4a", OutputFormat: "srt"})
//	if out.Failed() { ... }
package pipeline
