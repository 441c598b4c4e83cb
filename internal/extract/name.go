package extract

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/text"
)

// NamePrefixLength is how many leading characters of a resume are handed to the recognizer.
const NamePrefixLength = 1000

// NameExtractor finds the candidate name with a named-entity recognizer.
type NameExtractor struct {
	recognizer ai.Recognizer
	logger     *zap.Logger
}

func NewNameExtractor(recognizer ai.Recognizer, logger *zap.Logger) *NameExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameExtractor{recognizer: recognizer, logger: logger}
}

// Name returns the first person entity found in the head of s.
// Recognition failures other than an unavailable model are logged and
// reported as no name.
func (e *NameExtractor) Name(ctx context.Context, s string) (*string, error) {
	if e == nil || e.recognizer == nil {
		return nil, ai.Unavailable("none", "configure a recognizer to extract candidate names", nil)
	}

	head := text.Prefix(s, NamePrefixLength)
	if strings.TrimSpace(head) == "" {
		return nil, nil
	}

	entities, err := e.recognizer.Recognize(ctx, head)
	if err != nil {
		if errors.Is(err, ai.ErrModelUnavailable) || ctx.Err() != nil {
			return nil, err
		}
		e.logger.Warn("recognizing entities failed", zap.Error(err))
		return nil, nil
	}

	for _, entity := range entities {
		if entity.Label != ai.LabelPerson {
			continue
		}
		name := strings.TrimSpace(entity.Text)
		if name == "" {
			continue
		}
		return &name, nil
	}

	return nil, nil
}
