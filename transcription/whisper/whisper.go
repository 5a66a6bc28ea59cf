package whisper

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kbukum/whisper-mcp/httpclient"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/transcription"
)

// ProviderName identifies the ASR service in logs and health output.
const ProviderName = "whisper-asr"

const (
	detectPath     = "/detect-language"
	transcribePath = "/asr"

	audioField    = "audio_file"
	audioFileName = "audio.mp3"
	audioMIME     = "audio/mpeg"
)

// Client talks to whisper-asr-webservice. Each endpoint has its own
// adapter so the detect and transcribe timeouts stay independent.
type Client struct {
	cfg    Config
	detect *httpclient.Adapter
	asr    *httpclient.Adapter
	log    *logger.Logger
}

var _ transcription.Provider = (*Client)(nil)

// New creates a Client. opts apply to both underlying adapters.
func New(cfg Config, opts ...httpclient.Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	detect, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.ASRURL,
		Timeout: cfg.DetectTimeout,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("whisper: detect client: %w", err)
	}
	asr, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.ASRURL,
		Timeout: cfg.TranscribeTimeout,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("whisper: asr client: %w", err)
	}

	return &Client{
		cfg:    cfg,
		detect: detect,
		asr:    asr,
		log:    logger.WithComponent(ProviderName),
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// IsAvailable reports whether the service answers HTTP at its base URL.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.detect.IsAvailable(ctx)
}

type detectResponse struct {
	LanguageCode     string `json:"language_code"`
	DetectedLanguage string `json:"detected_language"`
}

// DetectLanguage asks the service for the spoken language. Any failure,
// including a response without a language field, yields ok == false.
func (c *Client) DetectLanguage(ctx context.Context, audio []byte) (string, bool) {
	log := c.log.WithContext(ctx)

	resp, err := httpclient.Post[detectResponse](c.detect, ctx, detectPath, audioBody(audio))
	if err != nil {
		log.Warn("language detection failed", logger.MergeWithError(logger.Fields(
			logger.FieldOperation, "detect_language",
			logger.FieldStatus, httpclient.StatusCodeOf(err),
			"reason", detectFailureReason(err),
		), err))
		return "", false
	}

	raw := resp.Data.LanguageCode
	if raw == "" {
		raw = resp.Data.DetectedLanguage
	}
	code, name := NormalizeLanguage(raw)
	if code == "" {
		log.Warn("language detection returned no language", logger.Fields(logger.FieldOperation, "detect_language"))
		return "", false
	}

	log.Debug("language detected", logger.Fields("language", code, "language_name", name, "raw", raw))
	return code, true
}

// Transcribe posts audio to /asr and returns the response body verbatim,
// including for the json format. Failures are *httpclient.Error values.
func (c *Client) Transcribe(ctx context.Context, req transcription.Request) (string, error) {
	format := req.Format
	if format == "" {
		format = transcription.DefaultFormat
	}
	query := map[string]string{"output": format.String()}
	if req.Language != "" {
		query["language"] = req.Language
	}
	if c.cfg.Task != "" {
		query["task"] = c.cfg.Task
	}
	if c.cfg.VADFilter {
		query["vad_filter"] = strconv.FormatBool(true)
	}
	if c.cfg.WordTimestamps {
		query["word_timestamps"] = strconv.FormatBool(true)
	}

	resp, err := c.asr.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   transcribePath,
		Query:  query,
		Body:   audioBody(req.Audio),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Close releases idle connections held by both adapters.
func (c *Client) Close(ctx context.Context) error {
	_ = c.detect.Close(ctx)
	return c.asr.Close(ctx)
}

func audioBody(audio []byte) *httpclient.MultipartBody {
	return &httpclient.MultipartBody{
		Files: []httpclient.FileField{{
			FieldName:   audioField,
			FileName:    audioFileName,
			ContentType: audioMIME,
			Data:        audio,
		}},
	}
}

// detectFailureReason labels a failed detection call for logs.
func detectFailureReason(err error) string {
	switch {
	case httpclient.IsTimeout(err):
		return "timeout"
	case httpclient.IsConnection(err):
		return "unreachable"
	case httpclient.StatusCodeOf(err) != 0:
		return "status"
	default:
		return "response"
	}
}
