package whisper

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/whisper-mcp/httpclient"
	"github.com/kbukum/whisper-mcp/transcription"
)

var mp3 = []byte{0xFF, 0xFB, 0x90, 0x64}

func newClient(t *testing.T, url string, mod func(*Config)) *Client {
	t.Helper()
	cfg := Config{ASRURL: url}
	if mod != nil {
		mod(&cfg)
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// readAudioPart asserts the request carries the MP3 upload the service expects.
func readAudioPart(t *testing.T, r *http.Request) []byte {
	t.Helper()
	file, header, err := r.FormFile(audioField)
	if err != nil {
		t.Errorf("missing %s part: %v", audioField, err)
		return nil
	}
	defer file.Close()
	if header.Filename != "audio.mp3" {
		t.Errorf("filename = %q", header.Filename)
	}
	if ct := header.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(file)
	return data
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
		wantOK bool
	}{
		{"language_code", http.StatusOK, `{"detected_language":"english","language_code":"en"}`, "en", true},
		{"detected_language only", http.StatusOK, `{"detected_language":"de"}`, "de", true},
		{"english name maps to code", http.StatusOK, `{"detected_language":"french"}`, "fr", true},
		{"no fields", http.StatusOK, `{}`, "", false},
		{"not json", http.StatusOK, `hello`, "", false},
		{"server error", http.StatusInternalServerError, `boom`, "", false},
		{"validation error", http.StatusUnprocessableEntity, `{"detail":"bad"}`, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if r.Method != http.MethodPost || r.URL.Path != "/detect-language" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				if got := readAudioPart(t, r); string(got) != string(mp3) {
					t.Errorf("uploaded %v", got)
				}
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			got, ok := newClient(t, srv.URL, nil).DetectLanguage(t.Context(), mp3)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("DetectLanguage() = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.wantOK)
			}
			if calls.Load() != 1 {
				t.Errorf("expected exactly one call, got %d", calls.Load())
			}
		})
	}
}

func TestDetectLanguage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if got, ok := newClient(t, url, nil).DetectLanguage(t.Context(), mp3); ok || got != "" {
		t.Errorf("expected no language from a dead service, got (%q, %v)", got, ok)
	}
}

func TestDetectFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{httpclient.NewTimeoutError(fmt.Errorf("deadline exceeded")), "timeout"},
		{httpclient.NewConnectionError(fmt.Errorf("connection refused")), "unreachable"},
		{httpclient.NewServerError(http.StatusInternalServerError, []byte("boom")), "status"},
		{fmt.Errorf("httpclient: decode response: bad json"), "response"},
	}
	for _, tc := range tests {
		if got := detectFailureReason(tc.err); got != tc.want {
			t.Errorf("detectFailureReason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestDetectLanguage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, `{"language_code":"en"}`)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL, func(c *Config) { c.DetectTimeout = 20 * time.Millisecond })
	if _, ok := c.DetectLanguage(t.Context(), mp3); ok {
		t.Error("expected detection to give up after its timeout")
	}
}

func TestTranscribe_QueryAndPassThrough(t *testing.T) {
	const jsonBody = `{"text":" hi","segments":[{"id":0}],"language":"en"}`
	tests := []struct {
		name    string
		req     transcription.Request
		cfg     func(*Config)
		body    string
		wantQ   map[string]string
		absentQ []string
	}{
		{
			name:    "language omitted",
			req:     transcription.Request{Audio: mp3, Format: transcription.FormatText},
			body:    "hello world\n",
			wantQ:   map[string]string{"output": "text"},
			absentQ: []string{"language", "task", "vad_filter"},
		},
		{
			name:  "language and srt",
			req:   transcription.Request{Audio: mp3, Language: "en", Format: transcription.FormatSRT},
			body:  "1\n00:00:00,000 --> 00:00:01,000\nhello\n",
			wantQ: map[string]string{"output": "srt", "language": "en"},
		},
		{
			name:  "json body is not parsed",
			req:   transcription.Request{Audio: mp3, Format: transcription.FormatJSON},
			body:  jsonBody,
			wantQ: map[string]string{"output": "json"},
		},
		{
			name:  "configured task and filters",
			req:   transcription.Request{Audio: mp3},
			cfg:   func(c *Config) { c.Task = "translate"; c.VADFilter = true; c.WordTimestamps = true },
			body:  "bonjour",
			wantQ: map[string]string{"output": "text", "task": "translate", "vad_filter": "true", "word_timestamps": "true"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/asr" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				q := r.URL.Query()
				for k, v := range tc.wantQ {
					if q.Get(k) != v {
						t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
					}
				}
				for _, k := range tc.absentQ {
					if q.Has(k) {
						t.Errorf("query %s should be absent", k)
					}
				}
				readAudioPart(t, r)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			got, err := newClient(t, srv.URL, tc.cfg).Transcribe(t.Context(), tc.req)
			if err != nil {
				t.Fatalf("Transcribe: %v", err)
			}
			if got != tc.body {
				t.Errorf("body = %q, want %q", got, tc.body)
			}
		})
	}
}

func TestTranscribe_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, nil).Transcribe(t.Context(), transcription.Request{Audio: mp3})
	if err == nil {
		t.Fatal("expected error")
	}
	if httpclient.StatusCodeOf(err) != http.StatusInternalServerError {
		t.Errorf("expected status 500 on error, got %d", httpclient.StatusCodeOf(err))
	}
	he, ok := err.(*httpclient.Error)
	if !ok || !strings.Contains(he.Detail(), "model crashed") {
		t.Errorf("expected upstream body in detail, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newClient(t, srv.URL, nil)
	if !c.IsAvailable(t.Context()) {
		t.Error("any HTTP answer should count as available")
	}
	srv.Close()
	if c.IsAvailable(t.Context()) {
		t.Error("closed server should be unavailable")
	}
	if c.Name() != ProviderName {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.ASRURL != "http://localhost:9000" || cfg.DetectTimeout != 120*time.Second || cfg.TranscribeTimeout != 600*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	for _, bad := range []Config{
		{ASRURL: "localhost:9000"},
		{ASRURL: "ftp://host"},
		{ASRURL: "http://host", Task: "summarize"},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("expected %+v to be invalid", bad)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in, code string
		named    bool
	}{
		{"en", "en", true},
		{" EN ", "en", true},
		{"english", "en", true},
		{"German", "de", true},
		{"", "", false},
		{"klingon-ish", "klingon-ish", false},
	}
	for _, tc := range tests {
		code, name := NormalizeLanguage(tc.in)
		if code != tc.code {
			t.Errorf("NormalizeLanguage(%q) code = %q, want %q", tc.in, code, tc.code)
		}
		if (name != "") != tc.named {
			t.Errorf("NormalizeLanguage(%q) name = %q", tc.in, name)
		}
	}
}
