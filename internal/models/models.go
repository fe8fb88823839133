package models

import (
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Declared content types accepted at the upload boundary
const (
	ContentTypeText = "text/plain"
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeJPG  = "image/jpg"
	ContentTypePNG  = "image/png"
)

// NoTextFound is shown in image details when OCR produced nothing
const NoTextFound = "No text found"

// UploadedFile is a file submitted with a question
type UploadedFile struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	Filename    string `json:"filename,omitempty"`
}

// Extraction is the text extracted from an uploaded file
type Extraction struct {
	Text   string         `json:"text"`
	Format string         `json:"format,omitempty"` // "text", "pdf", "docx", "image"
	Image  *ImageMetadata `json:"image,omitempty"`
}

// ImageMetadata describes an uploaded image
type ImageMetadata struct {
	Type          string `json:"type"`
	SizeBytes     int    `json:"size_bytes"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	ExtractedText string `json:"extracted_text"`
}

// Dimensions renders the pixel size as WxH
func (m ImageMetadata) Dimensions() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Detail is one labelled line of image details
type Detail struct {
	Label string
	Value string
}

// Details returns the image details in display order
func (m ImageMetadata) Details() []Detail {
	return []Detail{
		{Label: "Image Type", Value: m.Type},
		{Label: "Image Size (bytes)", Value: strconv.Itoa(m.SizeBytes)},
		{Label: "Image Dimensions", Value: m.Dimensions()},
		{Label: "Extracted Text (if any)", Value: m.ExtractedText},
	}
}

// DisplayKind classifies what the caller should render
type DisplayKind string

const (
	DisplayAnswer       DisplayKind = "answer"
	DisplayError        DisplayKind = "error"
	DisplayMissingInput DisplayKind = "missing_input"
)

// PromptSource records which input produced the prompt
type PromptSource string

const (
	SourceTyped  PromptSource = "typed"
	SourceSpeech PromptSource = "speech"
	SourceFile   PromptSource = "file"
)

// DisplayResult is the outcome of one interaction
type DisplayResult struct {
	ID         string         `json:"id"`
	Kind       DisplayKind    `json:"kind"`
	Text       string         `json:"text"`
	Prompt     string         `json:"prompt,omitempty"`
	Source     PromptSource   `json:"source,omitempty"`
	Recognized string         `json:"recognized,omitempty"`
	Image      *ImageMetadata `json:"image,omitempty"`
}

// NormalizeContentType lowercases a MIME type and drops any parameters
func NormalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// ResolveContentType returns the declared type when one was given,
// otherwise it detects the type from the payload and then the filename.
func ResolveContentType(declared, filename string, data []byte) string {
	ct := NormalizeContentType(declared)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}

	if len(data) > 0 {
		detected := NormalizeContentType(mimetype.Detect(data).String())
		if detected != "" && detected != "application/octet-stream" {
			return detected
		}
	}

	if ext := filepath.Ext(filename); ext != "" {
		if byExt := NormalizeContentType(mime.TypeByExtension(strings.ToLower(ext))); byExt != "" {
			return byExt
		}
	}

	return ct
}
