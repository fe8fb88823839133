package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

const unintelligibleMarker = "UNINTELLIGIBLE"

// Recognizer turns a WAV recording into text
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

// ProviderRecognizer transcribes audio with a multimodal LLM
type ProviderRecognizer struct {
	provider providers.Provider
	model    string
	logger   *slog.Logger
}

// NewProviderRecognizer creates a recognizer backed by an LLM provider that accepts audio
func NewProviderRecognizer(provider providers.Provider, model string, logger *slog.Logger) *ProviderRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = providers.DefaultModel(provider.Name())
	}
	return &ProviderRecognizer{provider: provider, model: model, logger: logger}
}

func (r *ProviderRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	text, err := r.provider.Generate(ctx, providers.Config{
		Model:       r.model,
		Temperature: 0.0,
		Prompt: `Transcribe the speech in this audio recording exactly as spoken.
Respond with only the transcription, no quotes or commentary.
If no speech can be understood, respond with exactly: ` + unintelligibleMarker,
		Attachments: []providers.Attachment{{MIMEType: "audio/wav", Data: wav}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call %s for transcription: %w", r.provider.Name(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, unintelligibleMarker) {
		return "", ErrNoSpeech
	}

	r.logger.Debug("Recognized speech", "provider", r.provider.Name(), "model", r.model, "length", len(text))
	return text, nil
}

// Transcriber is an audio transcription endpoint
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// TranscriptionRecognizer adapts a dedicated transcription endpoint such as Whisper
type TranscriptionRecognizer struct {
	client Transcriber
}

// NewTranscriptionRecognizer wraps a transcription client
func NewTranscriptionRecognizer(client Transcriber) *TranscriptionRecognizer {
	return &TranscriptionRecognizer{client: client}
}

func (r *TranscriptionRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	text, err := r.client.Transcribe(ctx, wav)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}
