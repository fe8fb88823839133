package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

type fakeProvider struct {
	response string
	err      error
	panicMsg string
	wait     bool
	calls    []providers.Config
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, config providers.Config) (string, error) {
	f.calls = append(f.calls, config)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func TestGenerateSuccess(t *testing.T) {
	p := &fakeProvider{response: "4"}
	c := NewClient(p, Config{Model: "m", Temperature: 0.2}, nil)

	result := c.Generate(context.Background(), "What is 2+2?")
	if !result.OK() {
		t.Fatalf("Unexpected error: %v", result.Err)
	}
	if result.Text != "4" {
		t.Errorf("Expected 4, got %q", result.Text)
	}
	if result.Message() != "4" {
		t.Errorf("Expected message 4, got %q", result.Message())
	}
	if len(p.calls) != 1 {
		t.Fatalf("Expected one call, got %d", len(p.calls))
	}
	if p.calls[0].Prompt != "What is 2+2?" || p.calls[0].Model != "m" || p.calls[0].Temperature != 0.2 {
		t.Errorf("Unexpected provider config: %#v", p.calls[0])
	}
	if len(p.calls[0].Attachments) != 0 {
		t.Errorf("Expected prompt as sole input")
	}
}

func TestGenerateNeverRaises(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		prompt   string
		wantErr  error
	}{
		{
			name:     "endpoint failure",
			provider: &fakeProvider{err: errors.New("503 service unavailable")},
			prompt:   "hi",
		},
		{
			name:     "provider panic",
			provider: &fakeProvider{panicMsg: "nil candidate"},
			prompt:   "hi",
		},
		{
			name:     "empty completion",
			provider: &fakeProvider{response: "   "},
			prompt:   "hi",
		},
		{
			name:     "empty prompt",
			provider: &fakeProvider{response: "unused"},
			prompt:   " ",
			wantErr:  ErrEmptyPrompt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.provider, Config{}, nil)
			result := c.Generate(context.Background(), tt.prompt)

			if result.OK() {
				t.Fatalf("Expected failure result, got %q", result.Text)
			}
			if !strings.HasPrefix(result.Message(), "An error occurred: ") {
				t.Errorf("Expected error indication, got %q", result.Message())
			}
			if tt.wantErr != nil {
				if !errors.Is(result.Err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, result.Err)
				}
				if len(tt.provider.calls) != 0 {
					t.Errorf("Expected provider not to be called")
				}
				return
			}

			var genErr *Error
			if !errors.As(result.Err, &genErr) {
				t.Fatalf("Expected *generate.Error, got %T", result.Err)
			}
			if genErr.Provider != "fake" {
				t.Errorf("Expected provider fake, got %s", genErr.Provider)
			}
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	p := &fakeProvider{wait: true}
	c := NewClient(p, Config{Timeout: 10 * time.Millisecond}, nil)

	result := c.Generate(context.Background(), "hi")
	if !errors.Is(result.Err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", result.Err)
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	c := NewClient(&fakeProvider{}, Config{}, nil)
	if c.cfg.Timeout != 60*time.Second {
		t.Errorf("Expected default timeout, got %s", c.cfg.Timeout)
	}
}
