package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

// ErrNotConfigured is returned when no OCR engine could be resolved at startup
var ErrNotConfigured = errors.New("OCR engine not configured")

// Unavailable is the engine used when OCR could not be resolved
type Unavailable struct {
	Reason string
}

// Recognize always fails with ErrNotConfigured
func (u Unavailable) Recognize(ctx context.Context, mimeType string, data []byte) (string, error) {
	if u.Reason != "" {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.Reason)
	}
	return "", ErrNotConfigured
}

// VisionService extracts text from images using LLM vision capabilities
type VisionService struct {
	provider providers.Provider
	model    string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewVisionService creates a new vision OCR service backed by the given provider
func NewVisionService(provider providers.Provider, model string, timeout time.Duration, logger *slog.Logger) *VisionService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &VisionService{
		provider: provider,
		model:    model,
		timeout:  timeout,
		logger:   logger,
	}
}

// Recognize transcribes all visible text in the image
func (s *VisionService) Recognize(ctx context.Context, mimeType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Generate(ctx, providers.Config{
		Model:       s.model,
		Temperature: 0.0, // Zero temperature for exact OCR
		Prompt:      s.buildOCRPrompt(),
		Attachments: []providers.Attachment{{
			MIMEType: providers.NormalizeImageType(mimeType),
			Data:     data,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call %s for OCR: %w", s.provider.Name(), err)
	}

	text = strings.TrimSpace(text)
	if text == noTextMarker {
		text = ""
	}

	s.logger.Info("Extracted OCR text", "provider", s.provider.Name(), "model", s.model, "length", len(text))
	return text, nil
}

const noTextMarker = "[NO TEXT]"

func (s *VisionService) buildOCRPrompt() string {
	return `You are performing OCR (Optical Character Recognition) on an uploaded image.

Your task is to extract ALL visible text from the image exactly as it appears, preserving:
- Line breaks and formatting
- Capitalization
- Punctuation
- Special characters
- Order of text elements

INSTRUCTIONS:
1. Read the image carefully from top to bottom
2. Transcribe every piece of visible text
3. Preserve the original line breaks
4. Do not add any interpretation, commentary, or explanations
5. If text is partially obscured or unclear, transcribe what you can see and use [?] for illegible portions
6. If the image contains no text at all, respond with exactly: ` + noTextMarker + `

OUTPUT FORMAT:
Provide ONLY the extracted text. Do not include phrases like "Here is the text:" or "The image contains:".`
}
