package advice

import (
	"context"
	"fmt"
	"net/http"
)

const systemPrompt = "You are a financial advisor for Indian users."

// OpenAIBackend calls the chat completions endpoint
type OpenAIBackend struct {
	cfg    OpenAIConfig
	client *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type openAIResponse struct {
	Choices []struct {
		Message *openAIMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIBackend creates a backend; empty model and URL fall back to defaults
func NewOpenAIBackend(cfg OpenAIConfig, client *http.Client) *OpenAIBackend {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.URL == "" {
		cfg.URL = DefaultOpenAIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAIBackend{cfg: cfg, client: client}
}

func (b *OpenAIBackend) Name() string {
	return BackendOpenAI
}

// Generate returns choices[0].message.content
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	body := openAIRequest{
		Model: b.cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1200,
	}

	headers := map[string]string{"Authorization": "Bearer " + b.cfg.APIKey}
	if b.cfg.Organization != "" {
		headers["OpenAI-Organization"] = b.cfg.Organization
	}

	var resp openAIResponse
	if err := postJSON(ctx, b.client, b.cfg.URL, headers, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return "", fmt.Errorf("%w: openai response has no choices", ErrBackendFailed)
	}
	return resp.Choices[0].Message.Content, nil
}
