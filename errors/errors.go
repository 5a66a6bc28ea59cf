package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is the human-readable error message returned to callers.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Pipeline Error Constructors ---

// InvalidInput creates a new AppError for a request whose audio input is unusable.
// The message is returned verbatim.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidOutputFormat creates a new AppError listing the accepted output formats.
func InvalidOutputFormat(requested string, valid []string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidOutputFormat,
		Message:    "Invalid output_format. Choose from: " + strings.Join(valid, ", "),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details:    map[string]any{"requested": requested, "valid": valid},
	}
}

// NotFound creates a new AppError for a local audio path that does not exist.
func NotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: "File not found: " + path,
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"path": path},
	}
}

// SourceFailed creates a new AppError for an audio source that could not be read.
// Malformed inline payloads are INVALID_INPUT; everything else is FETCH_FAILED.
func SourceFailed(code ErrorCode, cause error) *AppError {
	status := http.StatusBadGateway
	if code == ErrCodeInvalidInput {
		status = http.StatusBadRequest
	}
	return &AppError{
		Code: code, Message: "Failed to get audio data: " + causeText(cause),
		HTTPStatus: status, Retryable: IsRetryableCode(code), Cause: cause,
	}
}

// TranscodeFailed creates a new AppError for a failed MP3 conversion.
func TranscodeFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscodeFailed, Message: "Failed to convert audio to MP3: " + causeText(cause),
		HTTPStatus: http.StatusBadGateway, Retryable: true, Cause: cause,
	}
}

// TranscriptionFailed creates a new AppError for a failed ASR transcription.
func TranscriptionFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptionFailed, Message: "Transcription failed: " + causeText(cause),
		HTTPStatus: http.StatusBadGateway, Retryable: true, Cause: cause,
	}
}

// ServiceBusy creates a new AppError for a request rejected because the
// service is already running its maximum number of transcriptions.
func ServiceBusy(cause error) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: "Service busy: " + causeText(cause),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred: " + causeText(cause),
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// Detailer is implemented by errors that carry a caller-facing description
// distinct from their Error() text (e.g. upstream response bodies).
type Detailer interface {
	Detail() string
}

func causeText(cause error) string {
	if cause == nil {
		return "unknown error"
	}
	var d Detailer
	if stderrors.As(cause, &d) {
		return d.Detail()
	}
	return cause.Error()
}
