package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"finoffice-backend/internal/config"
)

// AIService proxies the dashboard narration panels to a hosted
// text-generation model. One synchronous call per request, bounded by a
// config-driven timeout; no retries and no caching.
type AIService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewAIService(cfg *config.Config) (*AIService, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("AI API key is not configured")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.AI.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	return &AIService{
		client:  client,
		model:   cfg.AI.Model,
		timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}, nil
}

// Generate runs one text-generation call for the given prompt.
func (s *AIService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return text, nil
}

// ExtractJSON attempts a best-effort parse of a model response as JSON,
// tolerating a markdown code fence around the payload. Returns false when
// nothing parseable is found; callers degrade to a nil data field rather
// than an error.
func ExtractJSON(text string) (json.RawMessage, bool) {
	candidate := strings.TrimSpace(text)

	if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimPrefix(candidate, "```")
		if idx := strings.LastIndex(candidate, "```"); idx >= 0 {
			candidate = candidate[:idx]
		}
		candidate = strings.TrimSpace(candidate)
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
