package prompt

import (
	"errors"
	"strings"

	"github.com/lehigh-university-libraries/talkease/internal/models"
)

// ErrNoInput is returned when neither typed text nor file text is available
var ErrNoInput = errors.New("no question or file content provided")

// Assembly is the chosen prompt and where it came from
type Assembly struct {
	Prompt string
	Source models.PromptSource
}

// Assemble picks typed text when it has any non-space content, otherwise the file text.
// The two are never combined.
func Assemble(typed, fileText string) (Assembly, error) {
	if strings.TrimSpace(typed) != "" {
		return Assembly{Prompt: typed, Source: models.SourceTyped}, nil
	}
	if fileText != "" {
		return Assembly{Prompt: fileText, Source: models.SourceFile}, nil
	}
	return Assembly{}, ErrNoInput
}
