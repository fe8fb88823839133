// Package extract turns uploaded files into plain text for prompting.
package extract

import (
	"context"
	"log/slog"

	"github.com/lehigh-university-libraries/talkease/internal/models"
)

// OCREngine derives text from a raster image
type OCREngine interface {
	Recognize(ctx context.Context, mimeType string, data []byte) (string, error)
}

// Config holds extraction options
type Config struct {
	// PageSeparator is written between PDF pages. Empty keeps pages back to back.
	PageSeparator string
}

// Extractor dispatches on declared content type
type Extractor struct {
	cfg    Config
	ocr    OCREngine
	logger *slog.Logger
}

// New creates an Extractor. ocr may be nil when images are not expected.
func New(cfg Config, ocr OCREngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, ocr: ocr, logger: logger}
}

// Extract returns the text of payload according to its declared type.
// Unsupported types yield an empty Extraction and no error.
func (e *Extractor) Extract(ctx context.Context, declaredType string, payload []byte) (models.Extraction, error) {
	contentType := models.NormalizeContentType(declaredType)
	e.logger.Debug("extracting upload", "content_type", contentType, "bytes", len(payload))

	switch contentType {
	case models.ContentTypeText:
		text, err := extractText(payload)
		if err != nil {
			return models.Extraction{Format: FormatText}, &Error{Format: FormatText, Cause: err}
		}
		return models.Extraction{Text: text, Format: FormatText}, nil

	case models.ContentTypePDF:
		text, err := extractPDF(payload, e.cfg.PageSeparator)
		if err != nil {
			return models.Extraction{Format: FormatPDF}, &Error{Format: FormatPDF, Cause: err}
		}
		return models.Extraction{Text: text, Format: FormatPDF}, nil

	case models.ContentTypeDOCX:
		text, err := extractDOCX(payload)
		if err != nil {
			return models.Extraction{Format: FormatDOCX}, &Error{Format: FormatDOCX, Cause: err}
		}
		return models.Extraction{Text: text, Format: FormatDOCX}, nil

	case models.ContentTypeJPEG, models.ContentTypeJPG, models.ContentTypePNG:
		meta, text, err := e.extractImage(ctx, contentType, payload)
		if err != nil {
			return models.Extraction{Format: FormatImage}, &Error{Format: FormatImage, Cause: err}
		}
		return models.Extraction{Text: text, Format: FormatImage, Image: meta}, nil

	default:
		e.logger.Warn("unsupported upload type, ignoring file", "content_type", contentType)
		return models.Extraction{}, nil
	}
}
