package transcription

import (
	"context"

	"github.com/kbukum/whisper-mcp/provider"
)

// LanguageDetector identifies the spoken language of MP3 audio.
// Detection is advisory: implementations report failure as ok == false
// and never return an error.
type LanguageDetector interface {
	provider.Provider
	DetectLanguage(ctx context.Context, audio []byte) (code string, ok bool)
}

// Transcriber renders MP3 audio as a transcript in the requested format.
// The returned text is the service's response body, unparsed.
type Transcriber interface {
	provider.Provider
	Transcribe(ctx context.Context, req Request) (string, error)
}

// Provider is an ASR backend offering both operations.
type Provider interface {
	LanguageDetector
	Transcriber
}
