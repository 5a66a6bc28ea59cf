package audio

import (
	"strconv"

	apperrors "github.com/kbukum/whisper-mcp/errors"
)

// SourceKind identifies which variant a Source carries.
type SourceKind string

const (
	SourceBase64 SourceKind = "base64"
	SourceURL    SourceKind = "url"
	SourcePath   SourceKind = "path"
)

const (
	msgNoSource        = "Provide one of: audio_base64, audio_url, or audio_path"
	msgMultipleSources = "Provide only one of: audio_base64, audio_url, or audio_path"
)

// Source is a tagged union over the three ways audio can be supplied.
// The zero value is invalid; build one with NewSource or the From helpers.
type Source struct {
	kind  SourceKind
	value string
}

// FromBase64 wraps an inline base64 payload (a data URI is accepted too).
func FromBase64(payload string) Source { return Source{kind: SourceBase64, value: payload} }

// FromURL wraps a remote http(s) URL.
func FromURL(rawURL string) Source { return Source{kind: SourceURL, value: rawURL} }

// FromPath wraps a local filesystem path.
func FromPath(path string) Source { return Source{kind: SourcePath, value: path} }

// NewSource builds a Source from three optional inputs, exactly one of
// which must be non-empty. Empty strings count as absent.
func NewSource(base64Payload, rawURL, path string) (Source, error) {
	var candidates []Source
	if base64Payload != "" {
		candidates = append(candidates, FromBase64(base64Payload))
	}
	if rawURL != "" {
		candidates = append(candidates, FromURL(rawURL))
	}
	if path != "" {
		candidates = append(candidates, FromPath(path))
	}

	switch len(candidates) {
	case 0:
		return Source{}, apperrors.InvalidInput(msgNoSource)
	case 1:
		return candidates[0], nil
	default:
		return Source{}, apperrors.InvalidInput(msgMultipleSources)
	}
}

// Kind reports the populated variant.
func (s Source) Kind() SourceKind { return s.kind }

// Value returns the payload, URL, or path.
func (s Source) Value() string { return s.value }

// String returns a log-safe description; base64 payloads are not echoed.
func (s Source) String() string {
	if s.kind == SourceBase64 {
		return "base64(" + strconv.Itoa(len(s.value)) + " chars)"
	}
	return string(s.kind) + ":" + s.value
}
