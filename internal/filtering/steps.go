package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/pipeline"
)

type minScoreFilter struct {
	disabled  bool
	reason    string
	threshold float64
}

// NewMinScore creates a filter that drops records scoring below min-score.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.threshold = 0
	if cfg != nil {
		f.threshold = cfg.MinScore
	}
	if f.threshold < 0 || f.threshold > 1 {
		return fmt.Errorf("min-score must be within [0, 1], got %v", f.threshold)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, records []*pipeline.MatchRecord) ([]*pipeline.MatchRecord, Step, error) {
	initial := len(records)
	if f.threshold == 0 {
		return records, Step{Initial: initial, Left: initial}, nil
	}

	kept, dropped := keep(records, func(r *pipeline.MatchRecord) bool {
		return r.Score >= f.threshold
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates below score threshold",
			zap.Float64("threshold", f.threshold),
			zap.Strings("excluded_documents", dropped),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": fmt.Sprintf("%.2f", f.threshold)},
	}
}

type minYearsFilter struct {
	disabled bool
	reason   string
	years    int
}

// NewMinYears creates a filter that drops records with fewer years of experience
// than min-years. Records without a detected figure are dropped too.
func NewMinYears() Filter {
	return &minYearsFilter{}
}

func (f *minYearsFilter) Name() string { return "min_years" }

func (f *minYearsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minYearsFilter) IsEnabled() bool { return !f.disabled }

func (f *minYearsFilter) Validate(cfg *Config) error {
	f.years = 0
	if cfg != nil {
		f.years = cfg.MinYears
	}
	if f.years < 0 {
		return fmt.Errorf("min-years must not be negative, got %d", f.years)
	}
	return nil
}

func (f *minYearsFilter) Apply(_ context.Context, deps Deps, records []*pipeline.MatchRecord) ([]*pipeline.MatchRecord, Step, error) {
	initial := len(records)
	if f.years == 0 {
		return records, Step{Initial: initial, Left: initial}, nil
	}

	kept, dropped := keep(records, func(r *pipeline.MatchRecord) bool {
		return r.YearsOfExperience != nil && *r.YearsOfExperience >= f.years
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates with too little experience",
			zap.Int("min_years", f.years),
			zap.Strings("excluded_documents", dropped),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *minYearsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_years": strconv.Itoa(f.years)},
	}
}

type requiredSkillsFilter struct {
	disabled bool
	reason   string
	skills   []string
}

// NewRequiredSkills creates a filter that keeps only records matching every required skill.
func NewRequiredSkills() Filter {
	return &requiredSkillsFilter{}
}

func (f *requiredSkillsFilter) Name() string { return "required_skills" }

func (f *requiredSkillsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *requiredSkillsFilter) IsEnabled() bool { return !f.disabled }

func (f *requiredSkillsFilter) Validate(cfg *Config) error {
	f.skills = nil
	if cfg == nil {
		return nil
	}
	for _, skill := range cfg.RequiredSkills {
		skill = strings.TrimSpace(skill)
		if skill != "" {
			f.skills = append(f.skills, skill)
		}
	}
	return nil
}

func (f *requiredSkillsFilter) Apply(_ context.Context, deps Deps, records []*pipeline.MatchRecord) ([]*pipeline.MatchRecord, Step, error) {
	initial := len(records)
	if len(f.skills) == 0 {
		return records, Step{Initial: initial, Left: initial}, nil
	}

	kept, dropped := keep(records, func(r *pipeline.MatchRecord) bool {
		have := make(map[string]struct{}, len(r.MatchedSkills))
		for _, s := range r.MatchedSkills {
			have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
		}
		for _, s := range f.skills {
			if _, ok := have[strings.ToLower(s)]; !ok {
				return false
			}
		}
		return true
	})
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding candidates missing required skills",
			zap.Strings("required_skills", f.skills),
			zap.Strings("excluded_documents", dropped),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(dropped), Left: len(kept)}, nil
}

func (f *requiredSkillsFilter) Status() Status {
	details := map[string]string{}
	if len(f.skills) > 0 {
		details["required_skills"] = strings.Join(f.skills, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
