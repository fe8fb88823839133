package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/talkease/internal/anthropic"
	"github.com/lehigh-university-libraries/talkease/internal/assistant"
	"github.com/lehigh-university-libraries/talkease/internal/command"
	"github.com/lehigh-university-libraries/talkease/internal/config"
	"github.com/lehigh-university-libraries/talkease/internal/extract"
	"github.com/lehigh-university-libraries/talkease/internal/gemini"
	"github.com/lehigh-university-libraries/talkease/internal/generate"
	"github.com/lehigh-university-libraries/talkease/internal/ocr"
	"github.com/lehigh-university-libraries/talkease/internal/ollama"
	"github.com/lehigh-university-libraries/talkease/internal/openai"
	"github.com/lehigh-university-libraries/talkease/internal/providers"
	"github.com/lehigh-university-libraries/talkease/internal/speech"
)

// newAssistant builds the interaction service from validated configuration
func newAssistant(cfg *config.Config, logger *slog.Logger) (*assistant.Service, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	runner := command.ExecRunner{}

	extractor := extract.New(
		extract.Config{PageSeparator: cfg.Extract.PageSeparator},
		newOCREngine(cfg, provider, runner, logger),
		logger,
	)

	listener := speech.New(speech.Config{
		RecorderPath:     cfg.Speech.RecorderPath,
		SampleRate:       cfg.Speech.SampleRate,
		Calibration:      cfg.Speech.Calibration,
		Pause:            cfg.Speech.Pause,
		EnergyRatio:      cfg.Speech.EnergyRatio,
		MinThreshold:     cfg.Speech.MinThreshold,
		ListenTimeout:    cfg.Speech.ListenTimeout,
		RecognizeTimeout: cfg.Speech.RecognizeTimeout,
	}, newRecognizer(cfg, logger), runner, logger)

	generator := generate.NewClient(provider, generate.Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.GenerationTimeout,
	}, logger)

	return assistant.New(extractor, listener, generator, logger), nil
}

func newProvider(cfg *config.Config) (providers.Provider, error) {
	switch cfg.Provider {
	case providers.Gemini:
		return gemini.New(cfg.APIKey(providers.Gemini)), nil
	case providers.OpenAI:
		return openai.New(cfg.APIKey(providers.OpenAI), cfg.OpenAIBaseURL), nil
	case providers.Ollama:
		o, err := ollama.New(cfg.OllamaHost)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return o, nil
	case providers.Anthropic:
		return anthropic.New(cfg.APIKey(providers.Anthropic)), nil
	default:
		return nil, &config.Error{Field: "provider", Reason: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
}

func newOCREngine(cfg *config.Config, provider providers.Provider, runner command.Runner, logger *slog.Logger) extract.OCREngine {
	if cfg.OCR.Engine == config.OCRVision {
		return ocr.NewVisionService(provider, cfg.Model, cfg.OCR.Timeout, logger)
	}

	if cfg.OCR.TesseractPath == "" {
		logger.Warn("Tesseract path not configured, image uploads will fail", "env", "TESSERACT_PATH")
		return ocr.Unavailable{Reason: "set ocr.tesseract_path or TESSERACT_PATH"}
	}

	return ocr.NewTesseract(ocr.TesseractConfig{
		Path:        cfg.OCR.TesseractPath,
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
		Timeout:     cfg.OCR.Timeout,
	}, runner, logger)
}

// newRecognizer returns nil when the recognizer's credential is missing; capture then reports the service as unavailable
func newRecognizer(cfg *config.Config, logger *slog.Logger) speech.Recognizer {
	switch cfg.Speech.Recognizer {
	case config.RecognizerWhisper:
		key := cfg.APIKey(providers.OpenAI)
		if key == "" {
			logger.Warn("Whisper recognizer selected without a credential, speech capture disabled", "env", config.CredentialEnv(providers.OpenAI))
			return nil
		}
		return speech.NewTranscriptionRecognizer(openai.New(key, cfg.OpenAIBaseURL))
	default:
		key := cfg.APIKey(providers.Gemini)
		if key == "" {
			logger.Warn("Gemini recognizer selected without a credential, speech capture disabled", "env", config.CredentialEnv(providers.Gemini))
			return nil
		}
		return speech.NewProviderRecognizer(gemini.New(key), cfg.Speech.RecognizerModel, logger)
	}
}
