package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

// ErrEmptyPrompt is returned without calling the provider
var ErrEmptyPrompt = errors.New("prompt is empty")

// Error wraps any failure from the model call
type Error struct {
	Provider string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Result is either generated text or the reason generation failed
type Result struct {
	Text string
	Err  error
}

// OK reports whether generation succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the text to show the user
func (r Result) Message() string {
	if r.Err != nil {
		return "An error occurred: " + r.Err.Error()
	}
	return r.Text
}

// Config tunes the generation request
type Config struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client turns a prompt into a single completion
type Client struct {
	provider providers.Provider
	cfg      Config
	logger   *slog.Logger
}

// NewClient creates a new generation client
func NewClient(provider providers.Provider, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = providers.DefaultModel(provider.Name())
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{provider: provider, cfg: cfg, logger: logger}
}

// Generate calls the model once. It never panics; every failure is reported in Result.Err.
func (c *Client) Generate(ctx context.Context, prompt string) (result Result) {
	if strings.TrimSpace(prompt) == "" {
		return Result{Err: ErrEmptyPrompt}
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("provider panicked", "provider", c.provider.Name(), "panic", r)
			result = Result{Err: &Error{Provider: c.provider.Name(), Cause: fmt.Errorf("panic: %v", r)}}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := c.provider.Generate(ctx, providers.Config{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Prompt:      prompt,
	})
	if err != nil {
		c.logger.Error("Failed to generate response", "provider", c.provider.Name(), "model", c.cfg.Model, "err", err)
		return Result{Err: &Error{Provider: c.provider.Name(), Cause: err}}
	}
	if strings.TrimSpace(text) == "" {
		return Result{Err: &Error{Provider: c.provider.Name(), Cause: errors.New("empty response")}}
	}

	c.logger.Info("Generated response",
		"provider", c.provider.Name(),
		"model", c.cfg.Model,
		"prompt_length", len(prompt),
		"length", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Text: text}
}
