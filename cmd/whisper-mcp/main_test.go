package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-mcp/auth"
	"github.com/kbukum/whisper-mcp/bootstrap"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/pipeline"
)

var (
	mp3Bytes = []byte{0xFF, 0xFB, 0x90, 0x64, 0x00, 0x00}
	wavBytes = append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// backend stands in for both ffmpeg-api and whisper-asr.
type backend struct {
	convertCalls atomic.Int32
	asrCalls     atomic.Int32
	asrStatus    int
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/convert/audio/to/mp3":
		b.convertCalls.Add(1)
		_, _ = w.Write(mp3Bytes)
	case "/detect-language":
		_, _ = io.WriteString(w, `{"detected_language":"german","language_code":"de"}`)
	case "/asr":
		b.asrCalls.Add(1)
		if b.asrStatus != 0 {
			http.Error(w, "model not loaded", b.asrStatus)
			return
		}
		_, _ = io.WriteString(w, "guten tag")
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func testConfig(t *testing.T, b *backend) *Config {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	cfg := &Config{}
	cfg.Environment = "production"
	cfg.Logging.Level = "error"
	cfg.Whisper.ASRURL = srv.URL
	cfg.FFmpeg.APIURL = srv.URL
	cfg.MCP.Host = "127.0.0.1"
	cfg.ApplyDefaults()
	return cfg
}

func newTestApp(t *testing.T, cfg *Config) *bootstrap.App[*Config] {
	t.Helper()
	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(logger.NewWithWriter(&cfg.Logging, serviceName, io.Discard)))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return m
}

func TestBuildServer_RESTTranscribe(t *testing.T) {
	b := &backend{}
	cfg := testConfig(t, b)
	app := newTestApp(t, cfg)

	srv, deps, err := buildServer(app)
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}
	if err := app.RegisterComponent(deps); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(map[string]string{
		"audio_base64":  base64.StdEncoding.EncodeToString(wavBytes),
		"output_format": "srt",
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transcribe", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	got := decode(t, rec.Body.Bytes())
	if got["transcription"] != "guten tag" || got["detected_language"] != "de" || got["output_format"] != "srt" {
		t.Errorf("unexpected outcome %v", got)
	}
	if b.convertCalls.Load() != 1 {
		t.Errorf("convert calls = %d, want 1", b.convertCalls.Load())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

// lockedBuffer is written by the server goroutines and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServeApp_ServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t, &backend{})
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.MCP.Port = freePort(t)
	cfg.Server.ShutdownTimeout = 2 * time.Second

	var logs lockedBuffer
	app, err := newServeApp(cfg, bootstrap.WithLogger(logger.NewWithWriter(&cfg.Logging, serviceName, &logs)))
	if err != nil {
		t.Fatalf("newServeApp: %v", err)
	}
	var names []string
	for _, c := range app.Components.All() {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "telemetry,collaborators,http-server" {
		t.Errorf("components = %s", got)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	var infoStatus int
	app.OnReady(func(context.Context) error {
		defer cancel()
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/info", cfg.MCP.Port))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		infoStatus = resp.StatusCode
		return nil
	})

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if infoStatus != http.StatusOK {
		t.Errorf("/info status = %d", infoStatus)
	}
	if !strings.Contains(logs.String(), "Accepting MCP and REST requests") ||
		!strings.Contains(logs.String(), fmt.Sprintf("127.0.0.1:%d/mcp", cfg.MCP.Port)) {
		t.Errorf("ready log missing MCP endpoint: %s", logs.String())
	}
}

func TestBuildServer_Probes(t *testing.T) {
	cfg := testConfig(t, &backend{})
	app := newTestApp(t, cfg)
	srv, deps, err := buildServer(app)
	if err != nil {
		t.Fatal(err)
	}
	_ = app.RegisterComponent(deps)

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, body %s", path, rec.Code, rec.Body)
		}
	}

	routes := app.Summary.Routes()
	var sawMCP bool
	for _, r := range routes {
		if r.Path == "/mcp" && r.Method == http.MethodPost {
			sawMCP = true
		}
	}
	if !sawMCP {
		t.Errorf("summary routes missing POST /mcp: %+v", routes)
	}
	if len(app.Summary.Clients()) != 2 {
		t.Errorf("expected whisper and ffmpeg clients, got %+v", app.Summary.Clients())
	}
}

func TestBuildServer_HealthReportsUnreachableCollaborator(t *testing.T) {
	cfg := testConfig(t, &backend{})
	cfg.FFmpeg.APIURL = "http://127.0.0.1:1"
	app := newTestApp(t, cfg)
	srv, deps, err := buildServer(app)
	if err != nil {
		t.Fatal(err)
	}
	_ = app.RegisterComponent(deps)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ffmpeg-api") {
		t.Errorf("body should name the unreachable collaborator: %s", rec.Body)
	}
}

func TestBuildServer_AuthGuardsWorkRoutes(t *testing.T) {
	cfg := testConfig(t, &backend{})
	cfg.Server.Auth.JWTSecret = "0123456789abcdef0123"
	app := newTestApp(t, cfg)
	srv, _, err := buildServer(app)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transcribe", strings.NewReader(`{}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	token, err := mintToken(cfg, "ci", 0)
	if err != nil {
		t.Fatalf("mintToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/transcribe", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode(t, rec.Body.Bytes()); !strings.HasPrefix(got["error"].(string), "Provide one of") {
		t.Errorf("unexpected outcome %v", got)
	}
}

func TestMintToken(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if _, err := mintToken(cfg, "ci", 0); err == nil {
		t.Error("expected error when auth is disabled")
	}

	cfg.Server.Auth.JWTSecret = "0123456789abcdef0123"
	if _, err := mintToken(cfg, "", 0); err == nil {
		t.Error("expected error without subject")
	}

	token, err := mintToken(cfg, "ci", 0)
	if err != nil {
		t.Fatalf("mintToken: %v", err)
	}
	v, err := auth.NewValidator(cfg.Server.Auth)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.ValidateToken(token); err != nil {
		t.Errorf("minted token rejected: %v", err)
	}
}

func TestRunTranscribe(t *testing.T) {
	b := &backend{}
	cfg := testConfig(t, b)
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, mp3Bytes, 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := runTranscribe(context.Background(), cfg, pipelineRequest(path, "text"), &out)
	if err != nil {
		t.Fatalf("runTranscribe: %v", err)
	}
	got := decode(t, out.Bytes())
	if got["transcription"] != "guten tag" {
		t.Errorf("unexpected outcome %v", got)
	}
	if b.convertCalls.Load() != 0 {
		t.Errorf("mp3 input must skip conversion, got %d calls", b.convertCalls.Load())
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("logs must go to stderr, got %q", cfg.Logging.Output)
	}
}

func TestRunTranscribe_FailureOutcome(t *testing.T) {
	b := &backend{asrStatus: http.StatusInternalServerError}
	cfg := testConfig(t, b)
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, mp3Bytes, 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := runTranscribe(context.Background(), cfg, pipelineRequest(path, ""), &out)
	if !errors.Is(err, errOutcomeFailed) {
		t.Fatalf("err = %v, want errOutcomeFailed", err)
	}
	got := decode(t, out.Bytes())
	msg, _ := got["error"].(string)
	if !strings.HasPrefix(msg, "Transcription failed: ") {
		t.Errorf("error = %q", msg)
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), serviceName+" ") {
		t.Errorf("output = %q", out.String())
	}
}

func TestTranscribeCommandFlags(t *testing.T) {
	cmd := newTranscribeCommand(newCommandContext(new(string), new(string)))
	for _, name := range []string{"path", "url", "base64", "format", "filename"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}

func pipelineRequest(path, format string) pipeline.Request {
	return pipeline.Request{AudioPath: path, OutputFormat: format}
}

func TestRunTranscribe_LocalFFmpeg(t *testing.T) {
	b := &backend{}
	cfg := testConfig(t, b)
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\ncat >/dev/null; printf '\\377\\373\\220\\144'\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg.FFmpeg.Mode = "local"
	cfg.FFmpeg.Binary = bin

	req := pipeline.Request{AudioBase64: base64.StdEncoding.EncodeToString(wavBytes), OutputFormat: "vtt"}
	var out bytes.Buffer
	if err := runTranscribe(context.Background(), cfg, req, &out); err != nil {
		t.Fatalf("runTranscribe: %v", err)
	}
	if got := decode(t, out.Bytes()); got["transcription"] != "guten tag" || got["output_format"] != "vtt" {
		t.Errorf("unexpected outcome %v", got)
	}
	if b.convertCalls.Load() != 0 {
		t.Errorf("local mode must not call ffmpeg-api, got %d calls", b.convertCalls.Load())
	}
}
