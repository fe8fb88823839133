package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Model  string   `json:"model"`
			Prompt string   `json:"prompt"`
			Stream *bool    `json:"stream"`
			Images []string `json:"images"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if body.Stream == nil || *body.Stream {
			t.Errorf("Expected stream=false")
		}
		if body.Prompt != "What is 2+2?" {
			t.Errorf("Expected prompt verbatim, got %q", body.Prompt)
		}
		if len(body.Images) != 1 {
			t.Errorf("Expected 1 image, got %d", len(body.Images))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llava","response":"4","done":true}` + "\n"))
	}))
	defer srv.Close()

	o, err := New(srv.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, err := o.Generate(context.Background(), providers.Config{
		Model:       "llava",
		Prompt:      "What is 2+2?",
		Attachments: []providers.Attachment{{MIMEType: "image/png", Data: []byte("png")}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result != "4" {
		t.Errorf("Expected 4, got %q", result)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	o, err := New(srv.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := o.Generate(context.Background(), providers.Config{Model: "missing", Prompt: "hi"}); err == nil {
		t.Errorf("Expected error from failing endpoint")
	}
}

func TestGenerateRejectsAudio(t *testing.T) {
	o, err := New("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, err = o.Generate(context.Background(), providers.Config{
		Attachments: []providers.Attachment{{MIMEType: "audio/wav"}},
	})
	if err == nil {
		t.Errorf("Expected unsupported attachment error")
	}
}

func TestNewInvalidHost(t *testing.T) {
	if _, err := New("://bad"); err == nil {
		t.Errorf("Expected error for invalid host")
	}
}

func TestParseHost(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "default", host: "", expected: "http://localhost:11434"},
		{name: "bare host and port", host: "127.0.0.1:11434", expected: "http://127.0.0.1:11434"},
		{name: "bare hostname gets default port", host: "ollama", expected: "http://ollama:11434"},
		{name: "full url kept", host: "https://ollama.example.com", expected: "https://ollama.example.com"},
		{name: "url with port", host: "http://10.0.0.5:8080", expected: "http://10.0.0.5:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := parseHost(tt.host)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if u.String() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, u.String())
			}
		})
	}

	if _, err := New("127.0.0.1:11434"); err != nil {
		t.Errorf("Expected bare OLLAMA_HOST value to be accepted, got %v", err)
	}
}
