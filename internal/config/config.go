package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

// Error is a fatal configuration problem detected at startup
type Error struct {
	Field  string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config %s: %s: %v", e.Field, e.Reason, e.Cause)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// OCR engines
const (
	OCRTesseract = "tesseract"
	OCRVision    = "vision"
)

// Speech recognizers
const (
	RecognizerGemini  = "gemini"
	RecognizerWhisper = "whisper"
)

// Config holds all application configuration
type Config struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	Temperature       float64       `yaml:"temperature"`
	GenerationTimeout time.Duration `yaml:"generation_timeout"`
	OllamaHost        string        `yaml:"ollama_host"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`

	Credentials Credentials `yaml:"-"`

	Extract ExtractConfig `yaml:"extract"`
	OCR     OCRConfig     `yaml:"ocr"`
	Speech  SpeechConfig  `yaml:"speech"`
	Server  ServerConfig  `yaml:"server"`
}

// Credentials are only ever read from the environment
type Credentials struct {
	GeminiAPIKey    string
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// ExtractConfig holds file extraction options
type ExtractConfig struct {
	PageSeparator string `yaml:"page_separator"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine        string        `yaml:"engine"`
	TesseractPath string        `yaml:"tesseract_path"`
	TessdataDir   string        `yaml:"tessdata_dir"`
	Language      string        `yaml:"language"`
	Timeout       time.Duration `yaml:"timeout"`
}

// SpeechConfig holds speech capture configuration
type SpeechConfig struct {
	Recognizer       string        `yaml:"recognizer"`
	RecognizerModel  string        `yaml:"recognizer_model"`
	RecorderPath     string        `yaml:"recorder_path"`
	SampleRate       int           `yaml:"sample_rate"`
	Calibration      time.Duration `yaml:"calibration"`
	Pause            time.Duration `yaml:"pause"`
	EnergyRatio      float64       `yaml:"energy_ratio"`
	MinThreshold     float64       `yaml:"min_threshold"`
	ListenTimeout    time.Duration `yaml:"listen_timeout"`
	RecognizeTimeout time.Duration `yaml:"recognize_timeout"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string `yaml:"port"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Provider:          providers.Gemini,
		Temperature:       0.7,
		GenerationTimeout: 60 * time.Second,
		OCR: OCRConfig{
			Engine:   OCRTesseract,
			Language: "eng",
			Timeout:  30 * time.Second,
		},
		Speech: SpeechConfig{
			Recognizer:       RecognizerGemini,
			RecorderPath:     "rec",
			SampleRate:       16000,
			Calibration:      time.Second,
			Pause:            800 * time.Millisecond,
			EnergyRatio:      1.5,
			MinThreshold:     1.0,
			ListenTimeout:    15 * time.Second,
			RecognizeTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Port: "8888",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the environment,
// then validates it. Any returned error is an *Error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Field: "config", Reason: "unable to read " + path, Cause: err}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &Error{Field: "config", Reason: "invalid YAML in " + path, Cause: err}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Model == "" {
		cfg.Model = providers.DefaultModel(cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Provider, "TALKEASE_PROVIDER")
	setString(&c.Model, "TALKEASE_MODEL")
	setString(&c.OllamaHost, "OLLAMA_URL")
	setString(&c.OllamaHost, "OLLAMA_HOST")
	setString(&c.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.OCR.Engine, "TALKEASE_OCR_ENGINE")
	setString(&c.OCR.TesseractPath, "TESSERACT_PATH")
	setString(&c.OCR.TessdataDir, "TESSDATA_DIR")
	setString(&c.Speech.Recognizer, "TALKEASE_SPEECH_RECOGNIZER")
	setString(&c.Speech.RecorderPath, "TALKEASE_RECORDER_PATH")
	setString(&c.Server.Port, "TALKEASE_PORT")

	if v := os.Getenv("TALKEASE_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &Error{Field: "TALKEASE_TEMPERATURE", Reason: "not a number", Cause: err}
		}
		c.Temperature = t
	}

	if v := os.Getenv("TALKEASE_GENERATION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &Error{Field: "TALKEASE_GENERATION_TIMEOUT", Reason: "not a duration", Cause: err}
		}
		c.GenerationTimeout = d
	}

	c.Credentials = Credentials{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// APIKey returns the credential for the given provider
func (c *Config) APIKey(provider string) string {
	switch provider {
	case providers.Gemini:
		return c.Credentials.GeminiAPIKey
	case providers.OpenAI:
		return c.Credentials.OpenAIAPIKey
	case providers.Anthropic:
		return c.Credentials.AnthropicAPIKey
	default:
		return ""
	}
}

// CredentialEnv returns the environment variable holding the provider credential
func CredentialEnv(provider string) string {
	switch provider {
	case providers.Gemini:
		return "GEMINI_API_KEY"
	case providers.OpenAI:
		return "OPENAI_API_KEY"
	case providers.Anthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Validate checks the configuration for problems that must stop startup
func (c *Config) Validate() error {
	switch c.Provider {
	case providers.Gemini, providers.OpenAI, providers.Anthropic:
		if c.APIKey(c.Provider) == "" {
			env := CredentialEnv(c.Provider)
			return &Error{Field: env, Reason: fmt.Sprintf("%s API key not found, set %s in the environment or .env file", c.Provider, env)}
		}
	case providers.Ollama:
		// local server, no credential
	default:
		return &Error{Field: "provider", Reason: fmt.Sprintf("unsupported provider %q", c.Provider)}
	}

	if c.GenerationTimeout <= 0 {
		return &Error{Field: "generation_timeout", Reason: "must be positive"}
	}

	switch c.OCR.Engine {
	case OCRTesseract:
		if c.OCR.TesseractPath != "" {
			if _, err := os.Stat(c.OCR.TesseractPath); err != nil {
				return &Error{Field: "ocr.tesseract_path", Reason: "tesseract not found at " + c.OCR.TesseractPath, Cause: err}
			}
		}
	case OCRVision:
		if !providers.SupportsImages(c.Provider) {
			return &Error{Field: "ocr.engine", Reason: fmt.Sprintf("provider %s cannot read images", c.Provider)}
		}
	default:
		return &Error{Field: "ocr.engine", Reason: fmt.Sprintf("unsupported OCR engine %q", c.OCR.Engine)}
	}

	switch c.Speech.Recognizer {
	case RecognizerGemini, RecognizerWhisper:
	default:
		return &Error{Field: "speech.recognizer", Reason: fmt.Sprintf("unsupported speech recognizer %q", c.Speech.Recognizer)}
	}

	if c.Speech.SampleRate <= 0 {
		return &Error{Field: "speech.sample_rate", Reason: "must be positive"}
	}

	return nil
}
