// Package validation checks decoded request bodies against struct tags
// using go-playground/validator.
//
//	type body struct {
//	    AudioURL string `json:"audio_url" validate:"omitempty,http_url"`
//	}
//	if err := validation.Validate(b); err != nil { ... }
package validation
