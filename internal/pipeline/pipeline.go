// Package pipeline merges relevance scores and extracted facts into ranked match records.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/ranking"
	"github.com/spigell/resume-screener/internal/text"
)

// MatchRecord is the ranked result for one document. Records are never modified after Run returns them.
type MatchRecord struct {
	Document          *document.Document
	Score             float64
	MatchedSkills     []string
	YearsOfExperience *int
	CandidateName     *string
}

type Options struct {
	Vocabulary []string
	// Names enables candidate name extraction. Nil skips it.
	Names   *extract.NameExtractor
	Ranking []ranking.Option
}

type Pipeline struct {
	opts   Options
	logger *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Vocabulary == nil {
		opts.Vocabulary = extract.DefaultVocabulary()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Run scores docs against jd and returns records sorted by descending score.
// Equal scores keep the input order. An empty batch returns an empty slice.
func (p *Pipeline) Run(ctx context.Context, docs []*document.Document, jd string) ([]*MatchRecord, error) {
	if len(docs) == 0 {
		p.logger.Info("no documents to rank")
		return []*MatchRecord{}, nil
	}

	jd = text.Normalize(jd)
	scores := ranking.Rank(document.Texts(docs), jd, p.opts.Ranking...)

	p.logger.Debug("ranked documents", zap.Int("count", len(docs)))

	records := make([]*MatchRecord, 0, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := &MatchRecord{
			Document:          doc,
			Score:             scores[i],
			MatchedSkills:     extract.Skills(doc.NormalizedText, p.opts.Vocabulary),
			YearsOfExperience: extract.Years(doc.NormalizedText),
		}

		if p.opts.Names != nil {
			name, err := p.opts.Names.Name(ctx, doc.NormalizedText)
			if err != nil {
				return nil, fmt.Errorf("extracting candidate name from %s: %w", doc.ID, err)
			}
			record.CandidateName = name
		}

		p.logger.Debug("document scored",
			zap.String("document", doc.ID),
			zap.Float64("score", record.Score),
			zap.Strings("skills", record.MatchedSkills),
		)

		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	return records, nil
}

// DisplayName returns the candidate name, falling back to the document id.
func (r *MatchRecord) DisplayName() string {
	if r.CandidateName != nil && *r.CandidateName != "" {
		return *r.CandidateName
	}
	return r.Document.ID
}
