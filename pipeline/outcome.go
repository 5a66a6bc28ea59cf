package pipeline

import (
	"encoding/json"

	apperrors "github.com/kbukum/whisper-mcp/errors"
	"github.com/kbukum/whisper-mcp/transcription"
	"github.com/kbukum/whisper-mcp/util"
)

// Request is the caller-facing input of one transcription. Exactly one of
// the three audio fields must be set; empty strings count as unset.
type Request struct {
	AudioBase64  string `json:"audio_base64,omitempty"`
	AudioURL     string `json:"audio_url,omitempty"`
	AudioPath    string `json:"audio_path,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// Outcome is either a success or a failure, never both. It marshals to
// {"transcription", "detected_language", "output_format"} or {"error"}.
type Outcome struct {
	Transcription    string
	DetectedLanguage string
	OutputFormat     transcription.OutputFormat

	err *apperrors.AppError
}

// Success builds a successful outcome. An empty language marshals as null.
func Success(text, language string, format transcription.OutputFormat) Outcome {
	return Outcome{Transcription: text, DetectedLanguage: language, OutputFormat: format}
}

// Failure builds a failed outcome from err.
func Failure(err *apperrors.AppError) Outcome {
	return Outcome{err: err}
}

// Failed reports whether the run ended in an error.
func (o Outcome) Failed() bool { return o.err != nil }

// Err returns the terminal error, or nil on success.
func (o Outcome) Err() *apperrors.AppError { return o.err }

// ErrorMessage returns the caller-facing failure text, or "" on success.
func (o Outcome) ErrorMessage() string {
	if o.err == nil {
		return ""
	}
	return o.err.Message
}

type successBody struct {
	Transcription    string  `json:"transcription"`
	DetectedLanguage *string `json:"detected_language"`
	OutputFormat     string  `json:"output_format"`
}

type failureBody struct {
	Error string `json:"error"`
}

// MarshalJSON renders exactly one of the two outcome shapes. A json-format
// transcript stays a string holding the service's document.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return json.Marshal(failureBody{Error: o.err.Message})
	}
	body := successBody{Transcription: o.Transcription, OutputFormat: o.OutputFormat.String()}
	if o.DetectedLanguage != "" {
		body.DetectedLanguage = util.Ptr(o.DetectedLanguage)
	}
	return json.Marshal(body)
}
