// Package transcode converts audio to MP3, either through an ffmpeg-api
// service or by running a local ffmpeg binary.
package transcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/whisper-mcp/audio"
	"github.com/kbukum/whisper-mcp/httpclient"
	"github.com/kbukum/whisper-mcp/provider"
)

// ProviderName identifies the conversion service in logs and health output.
const ProviderName = "ffmpeg-api"

// Modes select the conversion backend.
const (
	ModeAPI   = "api"
	ModeLocal = "local"
)

const (
	defaultAPIURL  = "http://localhost:3030"
	defaultTimeout = 300 * time.Second
	defaultBinary  = "ffmpeg"

	convertPath = "/convert/audio/to/mp3"
	fileField   = "file"
)

// ErrEmptyOutput is returned when the service answers 2xx with no bytes.
var ErrEmptyOutput = errors.New("conversion service returned an empty body")

// Config is the ffmpeg section.
type Config struct {
	// Mode is "api" (default) or "local".
	Mode string `yaml:"mode" mapstructure:"mode"`
	// APIURL is the ffmpeg-api base URL, used in api mode.
	APIURL string `yaml:"api_url" mapstructure:"api_url"`
	// Binary is the ffmpeg executable, used in local mode.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Timeout bounds one conversion, upload and download included. Defaults to 300s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeAPI
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.Binary == "" {
		c.Binary = defaultBinary
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAPI:
		if c.APIURL == "" {
			return fmt.Errorf("ffmpeg: api_url is required")
		}
	case ModeLocal:
		if c.Binary == "" {
			return fmt.Errorf("ffmpeg: binary is required in local mode")
		}
	default:
		return fmt.Errorf("ffmpeg: mode must be api or local, got %q", c.Mode)
	}
	return nil
}

// Transcoder converts an asset to MP3 bytes and releases its resources on Close.
type Transcoder interface {
	provider.RequestResponse[*audio.Asset, []byte]
	provider.Closeable
}

// NewTranscoder builds the backend cfg.Mode selects.
func NewTranscoder(cfg Config, opts ...httpclient.Option) (Transcoder, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeLocal {
		return NewLocal(cfg), nil
	}
	return New(cfg, opts...)
}

// Target is where the configured backend lives, for startup logs.
func (c *Config) Target() string {
	if c.Mode == ModeLocal {
		return c.Binary
	}
	return c.APIURL
}

// Client uploads audio to ffmpeg-api and returns MP3 bytes.
type Client struct {
	http *httpclient.Adapter
}

var _ provider.RequestResponse[*audio.Asset, []byte] = (*Client)(nil)

// New creates a Client.
func New(cfg Config, opts ...httpclient.Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	adapter, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	return &Client{http: adapter}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// IsAvailable reports whether the service answers HTTP at its base URL.
func (c *Client) IsAvailable(ctx context.Context) bool { return c.http.IsAvailable(ctx) }

// Execute posts the asset as the multipart "file" field and returns the
// converted bytes. Non-2xx answers are *httpclient.Error values carrying
// the upstream body.
func (c *Client) Execute(ctx context.Context, asset *audio.Asset) ([]byte, error) {
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   convertPath,
		Body: &httpclient.MultipartBody{
			Files: []httpclient.FileField{{
				FieldName: fileField,
				FileName:  asset.UploadName(),
				Data:      asset.Data,
			}},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return nil, ErrEmptyOutput
	}
	return resp.Body, nil
}

// Close releases idle connections.
func (c *Client) Close(ctx context.Context) error { return c.http.Close(ctx) }
