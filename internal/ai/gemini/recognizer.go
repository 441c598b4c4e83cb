package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	systemInstruction   = "You extract named entities and reply with JSON only."
)

// Recognizer asks Gemini for the named entities of a text.
type Recognizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewRecognizer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Recognizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Recognizer{
		generator: generator,
		logger:    logger.WithCommonFields(log, provider, model),
		maxLogLen: maxLogLength,
	}
}

func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ai.Entity, error) {
	if r.generator == nil {
		return nil, ai.Unavailable(provider, keyHint, errors.New("gemini generator is not configured"))
	}

	prompt := buildPrompt(text)

	r.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	return parseResponse(raw)
}

func (r *Recognizer) Close() error { return nil }

func buildPrompt(text string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "List the named entities as JSON {\"entities\":[{\"text\":\"\",\"label\":\"PERSON\"}]}.\n\n{{TEXT}}"
	}
	return strings.ReplaceAll(template, "{{TEXT}}", text)
}

func parseResponse(raw string) ([]ai.Entity, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var decoded []map[string]any
	if err := mapstructure.Decode(data["entities"], &decoded); err != nil {
		return nil, fmt.Errorf("decode gemini entities: %w", err)
	}

	entities := make([]ai.Entity, 0, len(decoded))
	for _, item := range decoded {
		text := coerceString(item["text"])
		if text == "" {
			continue
		}
		entities = append(entities, ai.Entity{
			Text:  text,
			Label: normalizeLabel(coerceString(item["label"])),
		})
	}

	return entities, nil
}

func normalizeLabel(label string) string {
	switch upper := strings.ToUpper(strings.TrimSpace(label)); upper {
	case "PER", "PERSON", "PEOPLE":
		return ai.LabelPerson
	default:
		return upper
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
