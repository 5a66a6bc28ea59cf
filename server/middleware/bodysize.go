package middleware

import (
	"net/http"

	"github.com/kbukum/whisper-mcp/util"
)

// DefaultMaxBodySize admits base64-encoded recordings of a few hundred MB.
const DefaultMaxBodySize = 512 * 1024 * 1024

// BodySizeLimit restricts the request body to maxSize (e.g. "512MB").
// Reads past the limit fail with *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
