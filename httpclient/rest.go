package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// Post performs a POST request and decodes the JSON response into type T.
// The body is encoded like Request.Body, so a *MultipartBody uploads a form.
func Post[T any](a *Adapter, ctx context.Context, path string, body any) (*TypedResponse[T], error) {
	return doTyped[T](a, ctx, http.MethodPost, path, body)
}

// doTyped executes a typed REST request and decodes the JSON response.
func doTyped[T any](a *Adapter, ctx context.Context, method, path string, body any) (*TypedResponse[T], error) {
	resp, err := a.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		// A classified status error still carries a body worth decoding.
		if resp != nil {
			var data T
			if jsonErr := json.Unmarshal(resp.Body, &data); jsonErr == nil {
				return &TypedResponse[T]{
					StatusCode: resp.StatusCode,
					Headers:    resp.Headers,
					Data:       data,
				}, err
			}
		}
		return nil, err
	}

	var data T
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return nil, fmt.Errorf("httpclient: decode response: %w", err)
		}
	}

	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}, nil
}
