package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiVisionClient implements TextRecognizer using Google's Gemini models
type GeminiVisionClient struct {
	client *genai.Client
	model  string
}

// NewGeminiVisionClient creates a new Gemini client
func NewGeminiVisionClient(ctx context.Context, apiKey, model string) (*GeminiVisionClient, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiVisionClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiVisionClient) Provider() string { return "gemini" }

func (c *GeminiVisionClient) Close() error {
	return c.client.Close()
}

func (c *GeminiVisionClient) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0)
	m.SetTopK(1)

	// genai wants the subtype only, e.g. "png"
	format := strings.TrimPrefix(mimeType, "image/")

	resp, err := m.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(ocrPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no content")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return cleanTranscript(b.String()), nil
}
