package providers

import (
	"context"
	"errors"
	"strings"
)

// ErrUnsupportedAttachment is returned when a provider cannot accept an attachment's media type
var ErrUnsupportedAttachment = errors.New("attachment type not supported by provider")

// Attachment is binary media sent alongside the prompt
type Attachment struct {
	MIMEType string
	Data     []byte
}

// IsImage reports whether the attachment is an image
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MIMEType, "image/")
}

// IsAudio reports whether the attachment is audio
func (a Attachment) IsAudio() bool {
	return strings.HasPrefix(a.MIMEType, "audio/")
}

// Config represents the configuration for a single LLM request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	Attachments []Attachment
}

// Provider defines the interface for an LLM provider
type Provider interface {
	// Name identifies the provider in logs and error messages
	Name() string
	// Generate requests a single non-streaming completion
	Generate(ctx context.Context, config Config) (string, error)
}

// Provider names
const (
	Gemini    = "gemini"
	OpenAI    = "openai"
	Ollama    = "ollama"
	Anthropic = "anthropic"
)

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case Gemini:
		return "gemini-1.5-flash"
	case OpenAI:
		return "gpt-4o"
	case Ollama:
		return "mistral-small3.2:24b"
	case Anthropic:
		return "claude-3-5-sonnet-latest"
	default:
		return ""
	}
}

// SupportsImages reports whether the provider accepts image attachments
func SupportsImages(provider string) bool {
	switch provider {
	case Gemini, OpenAI, Ollama:
		return true
	default:
		return false
	}
}

// NormalizeImageType maps image/jpg to the registered image/jpeg type
func NormalizeImageType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "image/jpg" {
		return "image/jpeg"
	}
	return mimeType
}
