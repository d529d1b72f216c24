package advice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GeminiBackend calls the generateContent endpoint
type GeminiBackend struct {
	cfg    GeminiConfig
	client *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiBackend(cfg GeminiConfig, client *http.Client) *GeminiBackend {
	if cfg.URL == "" {
		cfg.URL = DefaultGeminiURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiBackend{cfg: cfg, client: client}
}

func (b *GeminiBackend) Name() string {
	return BackendGemini
}

// Generate returns candidates[0].content.parts[0].text
func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint, err := url.Parse(b.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid gemini url: %v", ErrBackendFailed, err)
	}
	q := endpoint.Query()
	q.Set("key", b.cfg.APIKey)
	endpoint.RawQuery = q.Encode()

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	var resp geminiResponse
	if err := postJSON(ctx, b.client, endpoint.String(), nil, body, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini response has no candidates", ErrBackendFailed)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
