package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/utils"
)

const (
	provider          = "gemini"
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3
	baseBackoff       = time.Second
	maxRetryDelay     = 30 * time.Second

	keyHint = "set ai.gemini.api-key-file, ai.gemini.api-key or GEMINI_API_KEY"
)

var retryAfterPattern = regexp.MustCompile(`retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*s`)

var sleep = utils.WaitFor

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models     contentModels
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
// A missing key or client is reported as ai.ErrModelUnavailable.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ai.Unavailable(provider, keyHint, errors.New("gemini api key is required"))
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, ai.Unavailable(provider, keyHint, fmt.Errorf("create genai client: %w", err))
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Generator{
		models:     client.Models,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, provider, model),
	}, nil
}

// GenerateContent sends the prompt with a system instruction and returns the textual response.
// Transient API errors are retried with exponential backoff.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", ai.Unavailable(provider, keyHint, errors.New("gemini generator is not initialized"))
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}
	if system = strings.TrimSpace(system); system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err == nil {
			return responseText(resp)
		}

		lastErr = classify(err)
		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("generate content: %w", lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func apiError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

// classify marks authentication and unknown-model errors as an unavailable model.
func classify(err error) error {
	apiErr, ok := apiError(err)
	if !ok {
		return err
	}
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return ai.Unavailable(provider, keyHint, err)
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(apiErr.Message), "api key") {
			return ai.Unavailable(provider, keyHint, err)
		}
	}
	return err
}

// retryDelay reports whether err is worth retrying and how long to wait first.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := apiError(err)
	if !ok {
		return 0, false
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Code < http.StatusInternalServerError {
		return 0, false
	}

	delay := baseBackoff << (attempt - 1)
	if m := retryAfterPattern.FindStringSubmatch(strings.ToLower(apiErr.Message)); m != nil {
		if seconds, err := strconv.ParseFloat(m[1], 64); err == nil {
			delay = time.Duration(seconds * float64(time.Second))
		}
	}

	if delay > maxRetryDelay {
		return delay, false
	}
	return delay, true
}
