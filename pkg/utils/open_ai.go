package utils

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIVisionClient implements TextRecognizer with a vision-capable chat model.
type OpenAIVisionClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIVisionClient(apiKey, model string) TextRecognizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIVisionClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIVisionClient) Provider() string { return "openai" }

func (c *OpenAIVisionClient) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   2048,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: ocrPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Transcribe this journal page.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}

	return cleanTranscript(resp.Choices[0].Message.Content), nil
}
