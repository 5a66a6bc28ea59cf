// Package transcription defines the speech-to-text contract consumed by the
// pipeline: a best-effort LanguageDetector, a Transcriber, and the closed set
// of OutputFormat values the ASR service can render.
//
// The whisper subpackage implements both against whisper-asr-webservice.
package transcription
