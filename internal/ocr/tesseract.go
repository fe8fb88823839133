package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/talkease/internal/command"
)

// TesseractConfig locates and tunes the Tesseract binary
type TesseractConfig struct {
	Path        string // absolute path to the tesseract executable, never looked up on PATH
	Language    string // default "eng"
	TessdataDir string
	Timeout     time.Duration
}

// Tesseract runs the Tesseract CLI on image bytes
type Tesseract struct {
	cfg    TesseractConfig
	runner command.Runner
	logger *slog.Logger
}

// NewTesseract returns a Tesseract engine using the given runner (nil uses os/exec)
func NewTesseract(cfg TesseractConfig, runner command.Runner, logger *slog.Logger) *Tesseract {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if runner == nil {
		runner = command.ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

// Recognize runs `tesseract stdin stdout -l <lang>` with the image on stdin
func (t *Tesseract) Recognize(ctx context.Context, mimeType string, data []byte) (string, error) {
	if t.cfg.Path == "" {
		return "", fmt.Errorf("%w: tesseract path is empty", ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	args := []string{"stdin", "stdout", "-l", t.cfg.Language}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	out, errb, err := t.runner.Run(ctx, bytes.NewReader(data), t.cfg.Path, args...)
	if err != nil {
		if stderr := strings.TrimSpace(string(errb)); stderr != "" {
			return "", fmt.Errorf("tesseract: %w: %s", err, command.Truncate(stderr, 512))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	// tesseract ends each page with a form feed
	text := strings.TrimRight(string(out), "\f \t\r\n")
	t.logger.Debug("tesseract ocr complete", "mime_type", mimeType, "length", len(text))
	return text, nil
}
