package anthropic

import (
	"context"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

const defaultMaxTokens = 1024

// Anthropic is a provider for Anthropic's Messages API
type Anthropic struct {
	client    anthropicsdk.Client
	apiKey    string
	maxTokens int64
}

// New returns a new Anthropic provider using the given API key
func New(apiKey string) *Anthropic {
	return &Anthropic{
		client:    anthropicsdk.NewClient(option.WithAPIKey(apiKey)),
		apiKey:    apiKey,
		maxTokens: defaultMaxTokens,
	}
}

// Name implements providers.Provider
func (a *Anthropic) Name() string {
	return providers.Anthropic
}

// Generate performs a single-turn completion and returns the concatenated text blocks
func (a *Anthropic) Generate(ctx context.Context, config providers.Config) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not configured")
	}
	if len(config.Attachments) > 0 {
		return "", fmt.Errorf("%w: %s", providers.ErrUnsupportedAttachment, config.Attachments[0].MIMEType)
	}

	msg, err := a.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(config.Model),
		MaxTokens:   a.maxTokens,
		Temperature: anthropicsdk.Float(config.Temperature),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(config.Prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(anthropicsdk.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty content returned from Anthropic")
	}

	return b.String(), nil
}
