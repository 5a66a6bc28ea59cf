package whisper

import (
	"fmt"
	"net/url"
	"time"
)

const (
	defaultASRURL            = "http://localhost:9000"
	defaultDetectTimeout     = 120 * time.Second
	defaultTranscribeTimeout = 600 * time.Second
)

// Config configures the whisper-asr-webservice client.
type Config struct {
	// ASRURL is the service base URL.
	ASRURL string `yaml:"asr_url" mapstructure:"asr_url"`
	// DetectTimeout bounds one /detect-language call. Defaults to 120s.
	DetectTimeout time.Duration `yaml:"detect_timeout" mapstructure:"detect_timeout"`
	// TranscribeTimeout bounds one /asr call. Defaults to 600s.
	TranscribeTimeout time.Duration `yaml:"transcribe_timeout" mapstructure:"transcribe_timeout"`

	// Task is "transcribe" or "translate"; empty leaves the service default.
	Task string `yaml:"task" mapstructure:"task"`
	// VADFilter asks the service to drop non-speech segments.
	VADFilter bool `yaml:"vad_filter" mapstructure:"vad_filter"`
	// WordTimestamps asks for word-level timing in formats that carry it.
	WordTimestamps bool `yaml:"word_timestamps" mapstructure:"word_timestamps"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.ASRURL == "" {
		c.ASRURL = defaultASRURL
	}
	if c.DetectTimeout <= 0 {
		c.DetectTimeout = defaultDetectTimeout
	}
	if c.TranscribeTimeout <= 0 {
		c.TranscribeTimeout = defaultTranscribeTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ASRURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("whisper: asr_url must be an absolute http(s) URL, got %q", c.ASRURL)
	}
	switch c.Task {
	case "", "transcribe", "translate":
	default:
		return fmt.Errorf("whisper: task must be transcribe or translate, got %q", c.Task)
	}
	return nil
}
