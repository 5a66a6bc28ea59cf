package audio

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/kbukum/whisper-mcp/errors"
	"github.com/kbukum/whisper-mcp/httpclient"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/util"
)

const (
	defaultFilename     = "audio"
	defaultFetchTimeout = 120 * time.Second
)

// FetchConfig controls how remote URLs are retrieved.
type FetchConfig struct {
	// Timeout bounds one fetch, body included. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxRedirects caps redirect hops. Zero means 10.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects"`
	// MaxBytes caps the downloaded size. Zero means unlimited.
	MaxBytes int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// ApplyDefaults fills zero values.
func (c *FetchConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultFetchTimeout
	}
}

// Validate checks the fetch settings.
func (c *FetchConfig) Validate() error {
	if c.MaxBytes < 0 {
		return fmt.Errorf("fetch: max_bytes must be non-negative")
	}
	return nil
}

// Resolver reads an audio Source into an Asset. It is safe for concurrent
// use; the URL adapter is shared and holds no per-request state.
type Resolver struct {
	fetch *httpclient.Adapter
	log   *logger.Logger
}

// NewResolver builds a Resolver whose URL fetches follow cfg.
func NewResolver(cfg FetchConfig, opts ...httpclient.Option) (*Resolver, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	adapter, err := httpclient.New(httpclient.Config{
		Name:             "audio-fetch",
		Timeout:          cfg.Timeout,
		MaxRedirects:     cfg.MaxRedirects,
		MaxResponseBytes: cfg.MaxBytes,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("audio: create fetch client: %w", err)
	}
	return &Resolver{fetch: adapter, log: logger.WithComponent("audio")}, nil
}

// Resolve reads src and returns its bytes with a best-effort filename.
// A non-empty filename always wins over anything derived from the source.
//
// Failures are *errors.AppError values: INVALID_INPUT for undecodable
// base64, NOT_FOUND for a missing path, FETCH_FAILED for everything else.
func (r *Resolver) Resolve(ctx context.Context, src Source, filename string) (*Asset, error) {
	var (
		asset *Asset
		err   error
	)
	switch src.Kind() {
	case SourceBase64:
		asset, err = decodeBase64(src.Value(), filename)
	case SourcePath:
		asset, err = readPath(src.Value(), filename)
	case SourceURL:
		asset, err = r.fetchURL(ctx, src.Value(), filename)
	default:
		return nil, apperrors.InvalidInput(msgNoSource)
	}
	if err != nil {
		return nil, err
	}

	r.log.WithContext(ctx).Debug("audio resolved", logger.Fields(
		"source", string(src.Kind()),
		logger.FieldFilename, asset.Filename,
		logger.FieldBytes, asset.Size(),
		"mime", asset.MIME(),
	))
	return asset, nil
}

// Close releases idle fetch connections.
func (r *Resolver) Close(ctx context.Context) error { return r.fetch.Close(ctx) }

func decodeBase64(payload, filename string) (*Asset, error) {
	data, err := DecodeBase64(payload)
	if err != nil {
		return nil, apperrors.SourceFailed(apperrors.ErrCodeInvalidInput, err)
	}
	return &Asset{Data: data, Filename: util.Coalesce(filename, defaultFilename)}, nil
}

// DecodeBase64 decodes a standard or URL-safe payload, padded or not.
// A leading data URI header and any whitespace are ignored.
func DecodeBase64(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}
	payload = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, stderrors.New("empty base64 payload")
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding,
		base64.URLEncoding, base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(payload)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func readPath(p, filename string) (*Asset, error) {
	info, err := os.Stat(p)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NotFound(p)
	}
	if err != nil {
		return nil, apperrors.SourceFailed(apperrors.ErrCodeFetchFailed, err)
	}
	if info.IsDir() {
		return nil, apperrors.SourceFailed(apperrors.ErrCodeInvalidInput, fmt.Errorf("%s is a directory", p))
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, apperrors.SourceFailed(apperrors.ErrCodeFetchFailed, err)
	}
	return &Asset{Data: data, Filename: util.Coalesce(filename, filepath.Base(p))}, nil
}

func (r *Resolver) fetchURL(ctx context.Context, rawURL, filename string) (*Asset, error) {
	resp, err := r.fetch.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: rawURL})
	if err != nil {
		return nil, apperrors.SourceFailed(apperrors.ErrCodeFetchFailed, err)
	}

	if filename == "" {
		filename = FilenameFromURL(rawURL)
		if cd := FilenameFromDisposition(resp.Header("Content-Disposition")); cd != "" {
			filename = cd
		}
	}
	return &Asset{Data: resp.Body, Filename: filename}, nil
}

// FilenameFromURL returns the last path segment of rawURL, ignoring any
// query string or fragment, or "audio" when there is none.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		p := rawURL
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		return util.Coalesce(p[strings.LastIndex(p, "/")+1:], defaultFilename)
	}
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return defaultFilename
	}
	base := path.Base(u.Path)
	if base == "." {
		return defaultFilename
	}
	return base
}

// FilenameFromDisposition extracts the filename parameter of a
// Content-Disposition header. Malformed headers fall back to the text
// after "filename=" with surrounding quotes removed.
func FilenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	var name string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		name = params["filename"]
	} else if i := strings.LastIndex(header, "filename="); i >= 0 {
		name = header[i+len("filename="):]
		if j := strings.IndexByte(name, ';'); j >= 0 {
			name = name[:j]
		}
	}
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if name == "" {
		return ""
	}
	return path.Base(name)
}
