package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/talkease/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider using the given API key
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// Name implements providers.Provider
func (g *Gemini) Name() string {
	return providers.Gemini
}

// Generate sends the prompt and any attachments to Gemini and returns the generated text
func (g *Gemini) Generate(ctx context.Context, config providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))

	parts, err := buildParts(config)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return responseText(resp)
}

func buildParts(config providers.Config) ([]genai.Part, error) {
	parts := []genai.Part{genai.Text(config.Prompt)}
	for _, a := range config.Attachments {
		if !a.IsImage() && !a.IsAudio() {
			return nil, fmt.Errorf("%w: %s", providers.ErrUnsupportedAttachment, a.MIMEType)
		}
		mimeType := a.MIMEType
		if a.IsImage() {
			mimeType = providers.NormalizeImageType(mimeType)
		}
		parts = append(parts, genai.Blob{MIMEType: mimeType, Data: a.Data})
	}
	return parts, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return b.String(), nil
}
