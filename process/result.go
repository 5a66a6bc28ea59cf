package process

import (
	"bytes"
	"fmt"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed or never started.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// ExitError is returned when a subprocess fails to start, exits non-zero
// or is killed by its context.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   []byte
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process: %s: exit code %d: %v", e.Binary, e.ExitCode, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Detail is the last non-empty stderr line, which is where tools like
// ffmpeg put the reason they failed. Without stderr it falls back to the
// underlying error.
func (e *ExitError) Detail() string {
	lines := bytes.Split(bytes.TrimSpace(e.Stderr), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if line := bytes.TrimSpace(lines[i]); len(line) > 0 {
			return string(line)
		}
	}
	return e.Err.Error()
}
