package extract

import (
	"fmt"
)

// Extraction formats
const (
	FormatText  = "text"
	FormatPDF   = "pdf"
	FormatDOCX  = "docx"
	FormatImage = "image"
)

// Error reports a parser failure for one uploaded file
type Error struct {
	Format string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Format, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DecodeError reports text that is not valid UTF-8
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid UTF-8 at byte %d", e.Offset)
}
