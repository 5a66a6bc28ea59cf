// Package version exposes build metadata for /info and `whisper-mcp version`.
//
// Values are stamped at compile time:
//
//	go build -ldflags "-X github.com/kbukum/whisper-mcp/version.Version=1.2.0 \
//	  -X github.com/kbukum/whisper-mcp/version.Commit=$(git rev-parse --short HEAD)"
package version
