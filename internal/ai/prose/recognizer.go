// Package prose recognizes named entities locally with the model bundled in
// github.com/jdkato/prose/v2.
package prose

import (
	"context"
	"errors"
	"fmt"
	"sync"

	proselib "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
)

const (
	provider = "prose"
	model    = "prose-v2-ner"

	warmupText = "Jane Doe lives in Berlin."
	hint       = "the prose model ships inside the binary; rebuild resume-screener or choose --recognizer gemini"
)

var errClosed = errors.New("prose recognizer is closed")

type parseFunc func(text string) ([]ai.Entity, error)

type Recognizer struct {
	parse  parseFunc
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New loads the model and runs a warm-up document through it. A model that
// fails to load is reported as ai.ErrModelUnavailable.
func New(log *zap.Logger) (*Recognizer, error) {
	return newRecognizer(parseWithProse, log)
}

func newRecognizer(parse parseFunc, log *zap.Logger) (*Recognizer, error) {
	log = logger.WithCommonFields(log, provider, model)

	if _, err := safeParse(parse, warmupText); err != nil {
		return nil, ai.Unavailable(provider, hint, err)
	}

	log.Debug("recognizer loaded")
	return &Recognizer{parse: parse, logger: log}, nil
}

func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ai.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ai.Unavailable(provider, hint, errClosed)
	}

	entities, err := safeParse(r.parse, text)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("entities recognized", zap.Int("count", len(entities)))
	return entities, nil
}

func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func safeParse(parse parseFunc, text string) (entities []ai.Entity, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("prose panicked: %v", rec)
		}
	}()
	return parse(text)
}

func parseWithProse(text string) ([]ai.Entity, error) {
	doc, err := proselib.NewDocument(text,
		proselib.WithTagging(true),
		proselib.WithSegmentation(false),
		proselib.WithExtraction(true),
	)
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}

	found := doc.Entities()
	entities := make([]ai.Entity, 0, len(found))
	for _, e := range found {
		entities = append(entities, ai.Entity{Text: e.Text, Label: e.Label})
	}
	return entities, nil
}
