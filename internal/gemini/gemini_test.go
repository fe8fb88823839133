package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		expected  string
		expectErr bool
	}{
		{
			name:      "nil response",
			resp:      nil,
			expectErr: true,
		},
		{
			name:      "no candidates",
			resp:      &genai.GenerateContentResponse{},
			expectErr: true,
		},
		{
			name: "empty content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
			},
			expectErr: true,
		},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []genai.Part{genai.Text("2+2 "), genai.Text("is 4")}},
				}},
			},
			expected: "2+2 is 4",
		},
		{
			name: "non-text parts only",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
				}},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := responseText(tt.resp)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error, got %q", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestBuildParts(t *testing.T) {
	parts, err := buildParts(providers.Config{
		Prompt: "transcribe",
		Attachments: []providers.Attachment{
			{MIMEType: "image/jpg", Data: []byte{1}},
			{MIMEType: "audio/wav", Data: []byte{2}},
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("Expected 3 parts, got %d", len(parts))
	}
	if blob, ok := parts[1].(genai.Blob); !ok || blob.MIMEType != "image/jpeg" {
		t.Errorf("Expected normalized image/jpeg blob, got %#v", parts[1])
	}

	_, err = buildParts(providers.Config{
		Attachments: []providers.Attachment{{MIMEType: "application/pdf"}},
	})
	if !errors.Is(err, providers.ErrUnsupportedAttachment) {
		t.Errorf("Expected ErrUnsupportedAttachment, got %v", err)
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	_, err := New("").Generate(context.Background(), providers.Config{Prompt: "hi"})
	if err == nil {
		t.Errorf("Expected error without API key")
	}
}
