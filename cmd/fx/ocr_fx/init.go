package ocr_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"gynergy/internal/config"
	"gynergy/internal/services"
	"gynergy/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextRecognizer,
	ProvideOcrService)

// ProvideTextRecognizer picks the vision provider named by OCR_PROVIDER.
func ProvideTextRecognizer(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.TextRecognizer, error) {
	log.Info("initializing text recognizer", zap.String("provider", cfg.OCR.Provider))

	switch cfg.OCR.Provider {
	case config.ProviderOpenAI:
		if cfg.OCR.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY not set; uploads will fail")
			return utils.DisabledRecognizer{Name: config.ProviderOpenAI}, nil
		}
		return utils.NewOpenAIVisionClient(cfg.OCR.OpenAIKey, cfg.OCR.OpenAIModel), nil
	case config.ProviderGemini:
		if cfg.OCR.GeminiKey == "" {
			log.Warn("GEMINI_API_KEY not set; uploads will fail")
			return utils.DisabledRecognizer{Name: config.ProviderGemini}, nil
		}
		client, err := utils.NewGeminiVisionClient(context.Background(), cfg.OCR.GeminiKey, cfg.OCR.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s. Use 'openai' or 'gemini'", cfg.OCR.Provider)
	}
}

func ProvideOcrService(recognizer utils.TextRecognizer, cfg *config.Config) services.OcrServiceInterface {
	return services.NewOcrService(recognizer, cfg.OCR.Timeout)
}
