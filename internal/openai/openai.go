package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

// OpenAI is a provider for OpenAI and OpenAI-compatible endpoints
type OpenAI struct {
	client *goopenai.Client
	apiKey string
}

// New returns a new OpenAI provider. An empty baseURL uses the public API.
func New(apiKey, baseURL string) *OpenAI {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: goopenai.NewClientWithConfig(cfg),
		apiKey: apiKey,
	}
}

// Name implements providers.Provider
func (o *OpenAI) Name() string {
	return providers.OpenAI
}

// Generate requests a single chat completion for the prompt
func (o *OpenAI) Generate(ctx context.Context, config providers.Config) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not configured")
	}

	message, err := buildMessage(config)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       config.Model,
		Messages:    []goopenai.ChatCompletionMessage{message},
		Temperature: float32(config.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// Transcribe converts WAV audio to text with the Whisper transcription endpoint
func (o *OpenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not configured")
	}

	resp, err := o.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    goopenai.Whisper1,
		FilePath: "utterance.wav",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transcription: %w", err)
	}

	return resp.Text, nil
}

func buildMessage(config providers.Config) (goopenai.ChatCompletionMessage, error) {
	if len(config.Attachments) == 0 {
		return goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleUser,
			Content: config.Prompt,
		}, nil
	}

	parts := []goopenai.ChatMessagePart{{
		Type: goopenai.ChatMessagePartTypeText,
		Text: config.Prompt,
	}}
	for _, a := range config.Attachments {
		if !a.IsImage() {
			return goopenai.ChatCompletionMessage{}, fmt.Errorf("%w: %s", providers.ErrUnsupportedAttachment, a.MIMEType)
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", providers.NormalizeImageType(a.MIMEType), base64.StdEncoding.EncodeToString(a.Data))
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{
				URL:    dataURL,
				Detail: goopenai.ImageURLDetailAuto,
			},
		})
	}

	return goopenai.ChatCompletionMessage{
		Role:         goopenai.ChatMessageRoleUser,
		MultiContent: parts,
	}, nil
}
