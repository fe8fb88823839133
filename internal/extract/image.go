package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lehigh-university-libraries/talkease/internal/models"
)

var errNoOCREngine = errors.New("no OCR engine")

func (e *Extractor) extractImage(ctx context.Context, contentType string, payload []byte) (*models.ImageMetadata, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	e.logger.Debug("decoded image", "format", format, "width", cfg.Width, "height", cfg.Height)

	if e.ocr == nil {
		return nil, "", errNoOCREngine
	}

	text, err := e.ocr.Recognize(ctx, contentType, payload)
	if err != nil {
		return nil, "", fmt.Errorf("ocr failed: %w", err)
	}

	extracted := text
	if extracted == "" {
		extracted = models.NoTextFound
	}

	return &models.ImageMetadata{
		Type:          contentType,
		SizeBytes:     len(payload),
		Width:         cfg.Width,
		Height:        cfg.Height,
		ExtractedText: extracted,
	}, text, nil
}
