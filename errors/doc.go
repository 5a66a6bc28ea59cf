// Package errors provides the unified error type for the transcription
// service. Every terminal pipeline failure is an *AppError whose Message is
// the exact text returned to callers in the {"error": ...} outcome.
package errors
