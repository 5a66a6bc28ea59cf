package transcription

import (
	"strings"

	apperrors "github.com/kbukum/whisper-mcp/errors"
)

// OutputFormat is a transcript representation the ASR service can render.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatVTT  OutputFormat = "vtt"
	FormatSRT  OutputFormat = "srt"
	FormatTSV  OutputFormat = "tsv"

	// DefaultFormat is used when the caller does not ask for one.
	DefaultFormat = FormatText
)

// formats is the accepted set in the order it is reported to callers.
var formats = []OutputFormat{FormatText, FormatJSON, FormatVTT, FormatSRT, FormatTSV}

// FormatNames returns the accepted output formats as strings.
func FormatNames() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// ParseOutputFormat matches s case-insensitively against the accepted set.
// An empty string selects DefaultFormat. Anything else fails with an
// INVALID_OUTPUT_FORMAT AppError listing the accepted values.
func ParseOutputFormat(s string) (OutputFormat, error) {
	if s == "" {
		return DefaultFormat, nil
	}
	candidate := OutputFormat(strings.ToLower(s))
	for _, f := range formats {
		if f == candidate {
			return f, nil
		}
	}
	return "", apperrors.InvalidOutputFormat(s, FormatNames())
}

// String returns the wire name of the format.
func (f OutputFormat) String() string { return string(f) }

// Request is one transcription call against the ASR service.
type Request struct {
	// Audio is MP3-coded audio.
	Audio []byte
	// Language is an optional hint such as "en". Empty lets the service detect.
	Language string
	// Format selects the rendered representation of the transcript.
	Format OutputFormat
}
