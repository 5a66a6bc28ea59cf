package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, Commit, BuildTime
	return func() {
		Version, Commit, BuildTime = v, c, b
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.Release {
		t.Error("dev should not be a release")
	}
	if info.StartedAt.IsZero() {
		t.Error("StartedAt should be set")
	}
	if info.Uptime == "" {
		t.Error("Uptime should be rendered")
	}
}

func TestGetStamped(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	Commit = "abc1234def"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if !info.Release {
		t.Error("1.0.0 should be a release")
	}
	if info.Commit != "abc1234" {
		t.Errorf("expected commit truncated to abc1234, got %q", info.Commit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0-dirty"
	if Get().Release {
		t.Error("dirty version should not be a release")
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	Commit = "abc1234"

	if got := Short(); !strings.HasPrefix(got, "1.0.0-abc1234") {
		t.Errorf("expected '1.0.0-abc1234' prefix, got %q", got)
	}
}

func TestFull(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	Commit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	fv := Full()
	for _, want := range []string{"1.0.0", "abc1234", "built 2026-01-15T10:30:00Z"} {
		if !strings.Contains(fv, want) {
			t.Errorf("expected %q in %q", want, fv)
		}
	}
}

func TestUptimeGrows(t *testing.T) {
	if Uptime() <= 0 {
		t.Error("uptime must be positive")
	}
}
