package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request validation errors
const (
	// ErrCodeInvalidInput indicates zero or several audio sources, or a malformed payload.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidOutputFormat indicates an output format outside the supported set.
	ErrCodeInvalidOutputFormat ErrorCode = "INVALID_OUTPUT_FORMAT"
	// ErrCodeNotFound indicates a local audio path that does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Collaborator errors (retryable)
const (
	// ErrCodeFetchFailed indicates the audio URL could not be retrieved.
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	// ErrCodeTranscodeFailed indicates the conversion service failed.
	ErrCodeTranscodeFailed ErrorCode = "TRANSCODE_FAILED"
	// ErrCodeTranscriptionFailed indicates the ASR transcription endpoint failed.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeServiceUnavailable indicates the service is at capacity.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeFetchFailed:         true,
	ErrCodeTranscodeFailed:     true,
	ErrCodeTranscriptionFailed: true,
	ErrCodeServiceUnavailable:  true,
	ErrCodeInternal:            false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
