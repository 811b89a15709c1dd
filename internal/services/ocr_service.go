package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"gynergy/pkg/metrics"
	"gynergy/pkg/utils"
)

const MaxUploadBytes = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type OcrServiceInterface interface {
	// Transcribe validates an uploaded page image and returns its text.
	// Images that fail validation never reach the recognizer.
	Transcribe(ctx context.Context, image []byte) (string, error)
}

type OcrService struct {
	recognizer utils.TextRecognizer
	timeout    time.Duration
}

func NewOcrService(recognizer utils.TextRecognizer, timeout time.Duration) OcrServiceInterface {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OcrService{recognizer: recognizer, timeout: timeout}
}

// CheckImage enforces the size cap and sniffs the real content type.
func CheckImage(image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: No file uploaded", utils.ErrValidation)
	}
	if len(image) > MaxUploadBytes {
		return "", fmt.Errorf("%w: File size exceeds maximum of %dMB", utils.ErrValidation, MaxUploadBytes>>20)
	}

	mt := mimetype.Detect(image)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: Invalid file type. Allowed types: %s",
		utils.ErrValidation, strings.Join(allowedImageTypes, ", "))
}

func (s *OcrService) Transcribe(ctx context.Context, image []byte) (string, error) {
	mimeType, err := CheckImage(image)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.recognizer.Recognize(ctx, image, mimeType)
	metrics.RecordOCRCall(s.recognizer.Provider(), time.Since(start).Seconds(), err)
	if err != nil {
		zap.L().Warn("text recognition failed",
			zap.String("provider", s.recognizer.Provider()),
			zap.Int("bytes", len(image)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: text recognition: %v", utils.ErrUpstream, err)
	}
	return text, nil
}
