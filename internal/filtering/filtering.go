package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/pipeline"
)

// Filter represents a single filtering step applied to ranked records.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, records []*pipeline.MatchRecord) ([]*pipeline.MatchRecord, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the thresholds consumed by the filters.
type Config struct {
	MinScore       float64  `mapstructure:"min-score"`
	MinYears       int      `mapstructure:"min-years"`
	RequiredSkills []string `mapstructure:"required-skills"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns every filter in the order they are applied.
func Default() []Filter {
	return []Filter{NewMinScore(), NewMinYears(), NewRequiredSkills()}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially. Filters only drop records; order is preserved.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, records []*pipeline.MatchRecord) ([]*pipeline.MatchRecord, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		records = next
	}

	return records, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func keep(records []*pipeline.MatchRecord, pred func(*pipeline.MatchRecord) bool) ([]*pipeline.MatchRecord, []string) {
	kept := make([]*pipeline.MatchRecord, 0, len(records))
	dropped := make([]string, 0)
	for _, r := range records {
		if pred(r) {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, r.Document.ID)
	}
	return kept, dropped
}
