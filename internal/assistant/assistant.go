// Package assistant runs one question/answer interaction end to end.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/talkease/internal/extract"
	"github.com/lehigh-university-libraries/talkease/internal/generate"
	"github.com/lehigh-university-libraries/talkease/internal/models"
	"github.com/lehigh-university-libraries/talkease/internal/prompt"
	"github.com/lehigh-university-libraries/talkease/internal/speech"
)

// User-facing messages
const (
	MessageMissingInput       = "Please enter a question or upload a file to get a response."
	MessageUnintelligible     = "Sorry, I could not understand the audio."
	MessageServiceUnavailable = "Could not request results from the speech recognition service."
	MessageDeviceUnavailable  = "No microphone input is available."
)

// Extractor turns an uploaded file into text
type Extractor interface {
	Extract(ctx context.Context, declaredType string, payload []byte) (models.Extraction, error)
}

// Listener captures one spoken utterance
type Listener interface {
	CaptureUtterance(ctx context.Context) (string, error)
}

// Generator produces an answer for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) generate.Result
}

// Question is what the user submitted
type Question struct {
	Text string
	File *models.UploadedFile
}

// Service wires extraction, speech capture, prompt assembly and generation together
type Service struct {
	extractor Extractor
	listener  Listener
	generator Generator
	logger    *slog.Logger
}

// New creates a Service. listener may be nil when speech capture is not available.
func New(extractor Extractor, listener Listener, generator Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		listener:  listener,
		generator: generator,
		logger:    logger,
	}
}

// Submit answers a typed question, an uploaded file, or both
func (s *Service) Submit(ctx context.Context, q Question) models.DisplayResult {
	id := uuid.NewString()
	logger := s.logger.With("interaction_id", id)
	logger.Info("Question submitted", "typed_length", len(q.Text), "has_file", q.File != nil)

	return s.answer(ctx, logger, models.DisplayResult{ID: id}, q.Text, models.SourceTyped, q.File)
}

// Listen captures a spoken question and answers it like typed text
func (s *Service) Listen(ctx context.Context, file *models.UploadedFile) models.DisplayResult {
	id := uuid.NewString()
	logger := s.logger.With("interaction_id", id)
	result := models.DisplayResult{ID: id}

	if s.listener == nil {
		logger.Warn("Speech capture requested but not configured")
		return errorResult(result, MessageDeviceUnavailable)
	}

	logger.Info("Listening for question")
	text, err := s.listener.CaptureUtterance(ctx)
	if err != nil {
		logger.Error("Speech capture failed", "err", err)
		return errorResult(result, speechMessage(err))
	}

	logger.Info("Question recognized", "length", len(text))
	result.Recognized = text
	return s.answer(ctx, logger, result, text, models.SourceSpeech, file)
}

func (s *Service) answer(ctx context.Context, logger *slog.Logger, result models.DisplayResult, typed string, source models.PromptSource, file *models.UploadedFile) models.DisplayResult {
	var fileText string
	if file != nil {
		extraction, err := s.extractor.Extract(ctx, file.ContentType, file.Data)
		if err != nil {
			logger.Error("Failed to extract upload", "content_type", file.ContentType, "filename", file.Filename, "err", err)
			return errorResult(result, extractionMessage(err))
		}
		fileText = extraction.Text
		result.Image = extraction.Image
	}

	assembled, err := prompt.Assemble(typed, fileText)
	if err != nil {
		if errors.Is(err, prompt.ErrNoInput) {
			result.Kind = models.DisplayMissingInput
			result.Text = MessageMissingInput
			return result
		}
		return errorResult(result, fmt.Sprintf("An error occurred: %v", err))
	}
	if assembled.Source == models.SourceTyped {
		assembled.Source = source
	}
	result.Prompt = assembled.Prompt
	result.Source = assembled.Source

	generated := s.generator.Generate(ctx, assembled.Prompt)
	if !generated.OK() {
		logger.Error("Generation failed", "source", assembled.Source, "err", generated.Err)
		return errorResult(result, generated.Message())
	}

	logger.Info("Answer generated", "source", assembled.Source, "length", len(generated.Text))
	result.Kind = models.DisplayAnswer
	result.Text = generated.Text
	return result
}

func errorResult(result models.DisplayResult, message string) models.DisplayResult {
	result.Kind = models.DisplayError
	result.Text = message
	return result
}

func speechMessage(err error) string {
	var speechErr *speech.Error
	if !errors.As(err, &speechErr) {
		return fmt.Sprintf("An error occurred: %v", err)
	}
	switch speechErr.Kind {
	case speech.KindUnintelligible:
		return MessageUnintelligible
	case speech.KindDeviceUnavailable:
		return MessageDeviceUnavailable
	default:
		return MessageServiceUnavailable
	}
}

func extractionMessage(err error) string {
	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		return fmt.Sprintf("Could not read the uploaded %s file: %v", extractErr.Format, extractErr.Cause)
	}
	return fmt.Sprintf("Could not read the uploaded file: %v", err)
}
