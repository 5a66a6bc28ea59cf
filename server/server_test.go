package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-mcp/auth"
	"github.com/kbukum/whisper-mcp/auth/jwt"
	"github.com/kbukum/whisper-mcp/component"
	"github.com/kbukum/whisper-mcp/errors"
	"github.com/kbukum/whisper-mcp/logger"
	"github.com/kbukum/whisper-mcp/pipeline"
	"github.com/kbukum/whisper-mcp/server/middleware"
	"github.com/kbukum/whisper-mcp/tool"
	"github.com/kbukum/whisper-mcp/transcription"
)

const testSecret = "server-test-secret-0123"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeRunner struct {
	mu      sync.Mutex
	calls   []pipeline.Request
	ids     []string
	outcome pipeline.Outcome
}

func (f *fakeRunner) Run(ctx context.Context, req pipeline.Request) pipeline.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	f.ids = append(f.ids, logger.RequestIDFromContext(ctx))
	return f.outcome
}

func (f *fakeRunner) last() (pipeline.Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return pipeline.Request{}, ""
	}
	return f.calls[len(f.calls)-1], f.ids[len(f.ids)-1]
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", io.Discard)
}

type harness struct {
	srv    *Server
	runner *fakeRunner
}

func newHarness(t *testing.T, cfg Config, mutate func(*Routes)) *harness {
	t.Helper()
	cfg.ApplyDefaults()
	runner := &fakeRunner{outcome: pipeline.Success("hello world", "en", transcription.FormatText)}
	srv := New(cfg, testLogger())
	srv.ApplyMiddleware()

	routes := Routes{
		ServiceName: "whisper-mcp",
		Runner:      runner,
		MCP:         tool.NewHTTPHandler(tool.NewServer("whisper-mcp", "test", runner)),
	}
	if mutate != nil {
		mutate(&routes)
	}
	srv.Mount(routes)
	return &harness{srv: srv, runner: runner}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rr, req)
	return rr
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("body is not JSON: %v (%q)", err, rr.Body.String())
	}
	return m
}

func TestTranscribe_Success(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	req := postJSON(PathTranscribe, `{"audio_path":"/tmp/a.wav","output_format":"SRT","filename":"a.wav"}`)
	req.Header.Set(middleware.RequestIDHeader, "req-42")

	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decode(t, rr)
	if body["transcription"] != "hello world" || body["detected_language"] != "en" || body["output_format"] != "text" {
		t.Errorf("unexpected body %v", body)
	}
	if _, hasErr := body["error"]; hasErr {
		t.Error("success body must not carry an error key")
	}

	got, id := h.runner.last()
	want := pipeline.Request{AudioPath: "/tmp/a.wav", OutputFormat: "SRT", Filename: "a.wav"}
	if got != want {
		t.Errorf("runner got %+v, want %+v", got, want)
	}
	if id != "req-42" {
		t.Errorf("request id in context = %q, want req-42", id)
	}
	if rr.Header().Get(middleware.RequestIDHeader) != "req-42" {
		t.Error("request id must be echoed")
	}
}

func TestTranscribe_FailureOutcomeIs200(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.runner.outcome = pipeline.Failure(errors.NotFound("/nope.wav"))

	rr := h.do(postJSON(PathTranscribe, `{"audio_path":"/nope.wav"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decode(t, rr)
	if body["error"] != "File not found: /nope.wav" || len(body) != 1 {
		t.Errorf("unexpected body %v", body)
	}
}

func TestTranscribe_BadBodies(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"audio_path":`, "Invalid JSON body"},
		{"wrong type", `{"audio_path": 12}`, "Invalid JSON body"},
		{"bad url", `{"audio_url":"not a url"}`, "audio_url: must be a valid URL"},
		{"long filename", `{"audio_path":"/a","filename":"` + strings.Repeat("x", 256) + `"}`, "filename: must be at most 255 characters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.do(postJSON(PathTranscribe, tc.body))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if msg, _ := decode(t, rr)["error"].(string); !strings.Contains(msg, tc.want) {
				t.Errorf("error %q does not contain %q", msg, tc.want)
			}
		})
	}
	if len(h.runner.calls) != 0 {
		t.Errorf("runner must not be called for rejected bodies, got %d calls", len(h.runner.calls))
	}
}

func TestTranscribe_BodyTooLarge(t *testing.T) {
	h := newHarness(t, Config{MaxBodySize: "1KB"}, nil)
	body := `{"audio_base64":"` + strings.Repeat("A", 4096) + `"}`

	rr := h.do(postJSON(PathTranscribe, body))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestTranscribe_MethodNotAllowed(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	rr := h.do(httptest.NewRequest(http.MethodGet, PathTranscribe, http.NoBody))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func authHarness(t *testing.T) (*harness, string) {
	t.Helper()
	cfg := Config{Auth: auth.Config{JWTSecret: testSecret}}
	cfg.ApplyDefaults()
	validator, err := auth.NewValidator(cfg.Auth)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	h := newHarness(t, cfg, func(r *Routes) { r.Validator = validator })

	svc, err := jwt.NewService(cfg.Auth.JWT(), jwt.NewClaims)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	claims := jwt.NewClaims()
	claims.Subject = "ci"
	token, err := svc.GenerateAccess(claims)
	if err != nil {
		t.Fatalf("GenerateAccess: %v", err)
	}
	return h, token
}

func TestAuth_GuardsWorkRoutesOnly(t *testing.T) {
	h, token := authHarness(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := postJSON(PathTranscribe, `{"audio_path":"/a.wav"}`)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if rr := h.do(req); rr.Code != tc.want {
				t.Errorf("expected %d, got %d: %s", tc.want, rr.Code, rr.Body.String())
			}
		})
	}

	for _, path := range []string{PathHealth, PathInfo} {
		if rr := h.do(httptest.NewRequest(http.MethodGet, path, http.NoBody)); rr.Code != http.StatusOK {
			t.Errorf("%s must stay open, got %d", path, rr.Code)
		}
	}
	if rr := h.do(postJSON(PathMCP, `{}`)); rr.Code != http.StatusUnauthorized {
		t.Errorf("/mcp must be guarded, got %d", rr.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, Config{RateLimit: middleware.RateLimitConfig{RequestsPerMinute: 2}}, nil)
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, h.do(postJSON(PathTranscribe, `{"audio_path":"/a"}`)).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}
	if rr := h.do(httptest.NewRequest(http.MethodGet, PathHealth, http.NoBody)); rr.Code != http.StatusOK {
		t.Errorf("probes are not rate limited, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		status component.HealthStatus
		want   int
	}{
		{"healthy", component.StatusHealthy, http.StatusOK},
		{"degraded", component.StatusDegraded, http.StatusOK},
		{"unhealthy", component.StatusUnhealthy, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, Config{}, func(r *Routes) {
				r.Health = func(context.Context) []component.Health {
					return []component.Health{
						{Name: "whisper-asr", Status: component.StatusHealthy},
						{Name: "ffmpeg-api", Status: tc.status},
					}
				}
			})
			rr := h.do(httptest.NewRequest(http.MethodGet, PathHealth, http.NoBody))
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
			body := decode(t, rr)
			if body["status"] != string(tc.status) {
				t.Errorf("status = %v, want %s", body["status"], tc.status)
			}
			if comps, _ := body["components"].([]any); len(comps) != 2 {
				t.Errorf("expected 2 components, got %v", body["components"])
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name      string
		health    component.HealthStatus
		available int
		want      int
		status    string
	}{
		{"ready", component.StatusHealthy, 2, http.StatusOK, "ready"},
		{"busy", component.StatusHealthy, 0, http.StatusServiceUnavailable, "busy"},
		{"not ready", component.StatusUnhealthy, 2, http.StatusServiceUnavailable, "not_ready"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, Config{}, func(r *Routes) {
				r.Readiness = func(context.Context) []component.Health {
					return []component.Health{{Name: "http-server", Status: tc.health}}
				}
				r.Capacity = func() (int, int) { return tc.available, 1 }
			})
			rr := h.do(httptest.NewRequest(http.MethodGet, PathReady, http.NoBody))
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
			body := decode(t, rr)
			if body["status"] != tc.status {
				t.Errorf("status = %v, want %s", body["status"], tc.status)
			}
			capacity, _ := body["capacity"].(map[string]any)
			if capacity["waiting"] != float64(1) {
				t.Errorf("expected waiting=1, got %v", body["capacity"])
			}
		})
	}
}

func TestInfo(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	rr := h.do(httptest.NewRequest(http.MethodGet, PathInfo, http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decode(t, rr)
	build, _ := body["build"].(map[string]any)
	if body["service"] != "whisper-mcp" || build["version"] == nil || build["uptime"] == nil {
		t.Errorf("unexpected info body %v", body)
	}
}

func TestMCPInitialize(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	init := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`

	req := postJSON(PathMCP, init)
	req.Header.Set("Accept", "application/json, text/event-stream")
	rr := h.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("whisper-mcp")) {
		t.Errorf("expected server info in %s", rr.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	req := httptest.NewRequest(http.MethodOptions, PathMCP, http.NoBody)
	req.Header.Set("Origin", "https://inspector.local")
	rr := h.do(req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Expose-Headers"), "Mcp-Session-Id") {
		t.Errorf("expected Mcp-Session-Id to be exposed, got %q", rr.Header().Get("Access-Control-Expose-Headers"))
	}
}

func TestRecoveryAtServerLevel(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	h.srv.GinEngine().GET("/boom", func(*gin.Context) { panic("boom") })

	rr := h.do(httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestStartStopAndComponent(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	srv := New(cfg, testLogger())
	srv.ApplyMiddleware()
	srv.Mount(Routes{ServiceName: "whisper-mcp"})
	comp := NewComponent(srv)

	if comp.Name() != "http-server" {
		t.Errorf("unexpected name %q", comp.Name())
	}
	if comp.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("component must be unhealthy before Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if comp.Health(ctx).Status != component.StatusHealthy {
		t.Error("component must be healthy after Start")
	}

	resp, err := http.Get("http://" + srv.Addr() + PathInfo)
	if err != nil {
		t.Fatalf("GET /info: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from live server, got %d", resp.StatusCode)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if srv.Listening() {
		t.Error("server must not report listening after Stop")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.MaxBodySize != "512MB" || cfg.ReadTimeout != 0 || cfg.WriteTimeout != 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ShutdownTimeout != 30*time.Second || cfg.Auth.TokenTTL == 0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"timeout", func(c *Config) { c.WriteTimeout = -time.Second }},
		{"body size", func(c *Config) { c.MaxBodySize = "lots" }},
		{"rate", func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }},
		{"auth", func(c *Config) { c.Auth.JWTSecret = "short" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
