package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type languageReply struct {
	DetectedLanguage string `json:"detected_language"`
	LanguageCode     string `json:"language_code"`
}

func TestPost_MultipartDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		_, header, err := r.FormFile("audio_file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		if header.Header.Get("Content-Type") != "audio/mpeg" {
			t.Errorf("part content type = %q", header.Header.Get("Content-Type"))
		}
		json.NewEncoder(w).Encode(languageReply{LanguageCode: "de"})
	}))
	defer srv.Close()

	a, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	body := &MultipartBody{Files: []FileField{{
		FieldName: "audio_file", FileName: "audio.mp3", ContentType: "audio/mpeg", Data: []byte{0xFF, 0xFB},
	}}}
	resp, err := Post[languageReply](a, context.Background(), "/detect-language", body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.LanguageCode != "de" {
		t.Errorf("expected de, got %q", resp.Data.LanguageCode)
	}
}

func TestPost_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model not loaded"})
	}))
	defer srv.Close()

	a, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := Post[map[string]string](a, context.Background(), "/detect-language", nil)
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if StatusCodeOf(err) != http.StatusInternalServerError {
		t.Errorf("expected server error, got %v", err)
	}
	if resp == nil || resp.Data["detail"] != "model not loaded" {
		t.Errorf("expected decoded error body, got %+v", resp)
	}
}

func TestPost_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	if _, err := Post[languageReply](a, context.Background(), "/detect-language", nil); err == nil {
		t.Fatal("expected decode error")
	}
}
