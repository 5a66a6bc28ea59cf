// Package logger provides structured logging for the transcription service
// using zerolog.
//
// It supports JSON and console output, an "auto" format that picks console
// output when attached to a terminal, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "auto"
//
// # Usage
//
//	log := logger.WithComponent("pipeline")
//	log.Info("transcription finished", logger.Fields("format", "srt"))
package logger
