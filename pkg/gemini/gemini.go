package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("gemini returned no text")

// Client generates short texts with a Gemini model
type Client struct {
	models *genai.Models
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: c.Models, model: model}, nil
}

// Generate sends prompt to the model. A nil temperature keeps the model default.
func (c *Client) Generate(ctx context.Context, prompt string, temperature *float32) (string, error) {
	var cfg *genai.GenerateContentConfig
	if temperature != nil {
		cfg = &genai.GenerateContentConfig{Temperature: temperature}
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
