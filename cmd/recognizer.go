package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/ai/prose"
	"github.com/spigell/resume-screener/internal/secrets"

	"go.uber.org/zap"
)

const (
	RecognizerProse  = "prose"
	RecognizerGemini = "gemini"
	RecognizerNone   = "none"
)

// newRecognizer opens the named entity recognizer selected by kind.
// RecognizerNone returns a nil recognizer and no error.
func newRecognizer(ctx context.Context, kind string, cfg *AIConfig, logger *zap.Logger) (ai.Recognizer, error) {
	switch strings.TrimSpace(strings.ToLower(kind)) {
	case "", RecognizerProse:
		rec, err := prose.New(logger)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case RecognizerGemini:
		return newGeminiRecognizer(ctx, cfg, logger)
	case RecognizerNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported recognizer: %s", kind)
	}
}

func newGeminiRecognizer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Recognizer, error) {
	if cfg == nil || cfg.Gemini == nil {
		cfg = &AIConfig{Gemini: &GeminiConfig{}}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, ai.Unavailable(RecognizerGemini, "set ai.gemini.api-key-file, ai.gemini.api-key or GEMINI_API_KEY", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewRecognizer(generator, cfg.Gemini.MaxLogLength, logger), nil
}
