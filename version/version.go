package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags -X.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

var startedAt = time.Now()

// Info is the build and process metadata served on /info.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	BuildTime string    `json:"build_time,omitempty"`
	GoVersion string    `json:"go_version"`
	Dirty     bool      `json:"dirty"`
	Release   bool      `json:"release"`
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// Get collects version information. Values missing from -ldflags fall back
// to the VCS stamp the go tool embeds in the binary.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		Release:   Version != "dev" && !strings.Contains(Version, "dirty"),
		StartedAt: startedAt.UTC(),
		Uptime:    Uptime().Round(time.Second).String(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// Uptime is the time since the process started.
func Uptime() time.Duration { return time.Since(startedAt) }

// Short renders "version-commit[-dirty]", or just the version without a commit.
func Short() string {
	info := Get()
	if info.Commit == "" {
		return info.Version
	}
	if info.Dirty {
		return fmt.Sprintf("%s-%s-dirty", info.Version, info.Commit)
	}
	return fmt.Sprintf("%s-%s", info.Version, info.Commit)
}

// Full is Short plus the build time and Go version, for `whisper-mcp version`.
func Full() string {
	info := Get()
	s := Short()
	if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
		s += " (built " + t.UTC().Format("2006-01-02T15:04:05Z") + ")"
	}
	if info.GoVersion != "" {
		s += " " + info.GoVersion
	}
	return s
}
