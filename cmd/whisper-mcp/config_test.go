package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/whisper-mcp/transcode"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != serviceName {
		t.Errorf("Name = %q, want %q", cfg.Name, serviceName)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Whisper.ASRURL != "http://localhost:9000" {
		t.Errorf("Whisper.ASRURL = %q", cfg.Whisper.ASRURL)
	}
	if cfg.FFmpeg.APIURL != "http://localhost:3030" {
		t.Errorf("FFmpeg.APIURL = %q", cfg.FFmpeg.APIURL)
	}
	if cfg.MCP.Host != "0.0.0.0" || cfg.MCP.Port != 3020 {
		t.Errorf("MCP = %+v, want 0.0.0.0:3020", cfg.MCP)
	}
	if cfg.Server.Host != cfg.MCP.Host || cfg.Server.Port != cfg.MCP.Port {
		t.Errorf("server address %s:%d not copied from mcp section", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != "512MB" {
		t.Errorf("Server.MaxBodySize = %q", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ReadTimeout != 0 || cfg.Server.WriteTimeout != 0 {
		t.Errorf("read/write timeouts must default to none, got %s/%s", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Pipeline.MaxConcurrent != 4 || cfg.Pipeline.MaxWait != 15*time.Minute {
		t.Errorf("Pipeline = %+v", cfg.Pipeline)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad asr url", func(c *Config) { c.Whisper.ASRURL = "localhost:9000" }, "asr_url"},
		{"short jwt secret", func(c *Config) { c.Server.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"bad body size", func(c *Config) { c.Server.MaxBodySize = "lots" }, "max_body_size"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment"},
		{"bad sample rate", func(c *Config) { c.Tracing.SampleRate = 2 }, "sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	cfg, err := loadConfig("config.yml", filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.Whisper.TranscribeTimeout != 600*time.Second {
		t.Errorf("TranscribeTimeout = %s", cfg.Whisper.TranscribeTimeout)
	}
	if cfg.Pipeline.MaxWait != 15*time.Minute {
		t.Errorf("MaxWait = %s", cfg.Pipeline.MaxWait)
	}
	if cfg.FFmpeg.Mode != transcode.ModeAPI {
		t.Errorf("FFmpeg.Mode = %q, want %q", cfg.FFmpeg.Mode, transcode.ModeAPI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("shipped config must validate: %v", err)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("WHISPER_ASR_URL", "http://asr.internal:9000")
	t.Setenv("FFMPEG_API_URL", "http://ffmpeg.internal:3030")
	t.Setenv("MCP_PORT", "4040")

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("name: whisper-mcp\nwhisper:\n  asr_url: http://localhost:9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Whisper.ASRURL != "http://asr.internal:9000" {
		t.Errorf("Whisper.ASRURL = %q", cfg.Whisper.ASRURL)
	}
	if cfg.FFmpeg.APIURL != "http://ffmpeg.internal:3030" {
		t.Errorf("FFmpeg.APIURL = %q", cfg.FFmpeg.APIURL)
	}
	if cfg.MCP.Port != 4040 || cfg.Server.Port != 4040 {
		t.Errorf("port = mcp %d / server %d, want 4040", cfg.MCP.Port, cfg.Server.Port)
	}
}
