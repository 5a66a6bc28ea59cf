package transcode

import (
	"bytes"
	"context"
	"time"

	"github.com/kbukum/whisper-mcp/audio"
	"github.com/kbukum/whisper-mcp/process"
)

// LocalProviderName identifies the local ffmpeg binary in logs and health output.
const LocalProviderName = "ffmpeg-local"

// ffmpeg reads the upload from stdin and writes MP3 to stdout; the input
// container is probed from the bytes, so the filename is not needed.
var localArgs = []string{
	"-hide_banner", "-loglevel", "error", "-nostdin",
	"-i", "pipe:0",
	"-vn", "-f", "mp3",
	"pipe:1",
}

// Local converts audio by running ffmpeg as a subprocess.
type Local struct {
	binary  string
	timeout time.Duration
}

// NewLocal creates a Local transcoder; cfg defaults are applied.
func NewLocal(cfg Config) *Local {
	cfg.ApplyDefaults()
	return &Local{binary: cfg.Binary, timeout: cfg.Timeout}
}

// Name returns the provider name.
func (l *Local) Name() string { return LocalProviderName }

// IsAvailable reports whether the binary is on PATH.
func (l *Local) IsAvailable(context.Context) bool { return process.Available(l.binary) }

// Execute pipes asset through ffmpeg. A failed run is a *process.ExitError
// whose Detail is ffmpeg's last stderr line.
func (l *Local) Execute(ctx context.Context, asset *audio.Asset) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := process.Run(ctx, process.Command{
		Binary: l.binary,
		Args:   localArgs,
		Stdin:  bytes.NewReader(asset.Data),
	})
	if err != nil {
		return nil, err
	}
	if len(res.Stdout) == 0 {
		return nil, ErrEmptyOutput
	}
	return res.Stdout, nil
}

// Close is a no-op; each conversion owns its process.
func (l *Local) Close(context.Context) error { return nil }
