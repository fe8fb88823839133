package ollama

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollamaapi "github.com/ollama/ollama/api"

	"github.com/lehigh-university-libraries/talkease/internal/providers"
)

// DefaultHost is used when no Ollama host is configured
const DefaultHost = "http://localhost:11434"

// Ollama is a provider for Ollama
type Ollama struct {
	client *ollamaapi.Client
}

// New returns a new Ollama provider for the given host
func New(host string) (*Ollama, error) {
	u, err := parseHost(host)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: 5 * time.Minute,
	}

	return &Ollama{client: ollamaapi.NewClient(u, httpClient)}, nil
}

// parseHost accepts OLLAMA_HOST style values such as "127.0.0.1:11434" or "ollama",
// which carry no scheme, as well as full URLs.
func parseHost(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultHost
	}

	bare := !strings.Contains(host, "://")
	if bare {
		host = "http://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid ollama host %q: missing hostname", host)
	}
	if bare && u.Port() == "" {
		u.Host = net.JoinHostPort(u.Hostname(), "11434")
	}
	return u, nil
}

// Name implements providers.Provider
func (o *Ollama) Name() string {
	return providers.Ollama
}

// Generate requests a single non-streaming completion from Ollama
func (o *Ollama) Generate(ctx context.Context, config providers.Config) (string, error) {
	stream := false
	req := &ollamaapi.GenerateRequest{
		Model:  config.Model,
		Prompt: config.Prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": config.Temperature,
		},
	}

	for _, a := range config.Attachments {
		if !a.IsImage() {
			return "", fmt.Errorf("%w: %s", providers.ErrUnsupportedAttachment, a.MIMEType)
		}
		req.Images = append(req.Images, ollamaapi.ImageData(a.Data))
	}

	var text strings.Builder
	err := o.client.Generate(ctx, req, func(gr ollamaapi.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate with ollama: %w", err)
	}

	return text.String(), nil
}
