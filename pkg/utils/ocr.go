package utils

import (
	"context"
	"errors"
	"strings"
)

var ErrRecognizerNotConfigured = errors.New("text recognition is not configured")

// TextRecognizer extracts handwritten or printed text from an image.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
	Provider() string
}

const ocrPrompt = `You are transcribing a page from a personal journal.
Return only the text written on the page, preserving line breaks.
Do not add commentary, headings, or markdown. If there is no readable text, return an empty string.`

func cleanTranscript(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DisabledRecognizer stands in for a provider whose API key is missing in
// development. Every call fails, which surfaces as a 500 on upload.
type DisabledRecognizer struct {
	Name string
}

func (d DisabledRecognizer) Provider() string { return d.Name }

func (d DisabledRecognizer) Recognize(context.Context, []byte, string) (string, error) {
	return "", ErrRecognizerNotConfigured
}
