package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/filtering"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func rankFixture(t *testing.T) *Config {
	t.Helper()

	dir := t.TempDir()
	resumes := filepath.Join(dir, "resumes")
	if err := os.Mkdir(resumes, 0o755); err != nil {
		t.Fatalf("creating resumes dir: %v", err)
	}

	writeFile(t, filepath.Join(resumes, "a_dev.txt"), "Senior engineer. 7 years of Python and SQL development on AWS.")
	writeFile(t, filepath.Join(resumes, "b_chef.txt"), "Chef with 3 years of cooking and menu planning.")
	writeFile(t, filepath.Join(dir, "skills.txt"), "Python\nSQL\naws\n\ncooking\n")

	return &Config{
		Resumes:    resumes,
		JD:         "Looking for a Python developer with SQL experience",
		Skills:     filepath.Join(dir, "skills.txt"),
		Out:        filepath.Join(dir, "ranked.csv"),
		Format:     "csv",
		Recognizer: RecognizerNone,
		Filters:    &filtering.Config{},
		AI:         &AIConfig{Gemini: &GeminiConfig{}},
	}
}

func TestRunRankWritesCSV(t *testing.T) {
	color.NoColor = true
	config := rankFixture(t)

	var out bytes.Buffer
	if err := runRank(context.Background(), &out, config, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out.String(), "Saved rankings to: "+config.Out+"\n") {
		t.Fatalf("unexpected console output:\n%s", out.String())
	}

	f, err := os.Open(config.Out)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and two rows, got %d", len(rows))
	}

	top := rows[1]
	if top[0] != "a_dev.txt" || top[1] != "a_dev.txt" {
		t.Fatalf("expected the developer first, got %v", top)
	}
	if top[3] != "aws;Python;SQL" || top[4] != "7" {
		t.Fatalf("unexpected developer row: %v", top)
	}
	if rows[2][0] != "b_chef.txt" || rows[2][3] != "cooking" || rows[2][4] != "3" {
		t.Fatalf("unexpected chef row: %v", rows[2])
	}
}

func TestRunRankAppliesFilters(t *testing.T) {
	color.NoColor = true
	config := rankFixture(t)
	config.Filters.MinYears = 5

	var out bytes.Buffer
	if err := runRank(context.Background(), &out, config, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(config.Out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Contains(string(data), "b_chef.txt") {
		t.Fatalf("expected the chef to be filtered out:\n%s", data)
	}
}

func TestRunRankEmptyFolder(t *testing.T) {
	config := rankFixture(t)
	config.Resumes = t.TempDir()

	var out bytes.Buffer
	if err := runRank(context.Background(), &out, config, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := out.String(); got != "No resumes found in folder: "+config.Resumes+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if _, err := os.Stat(config.Out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no output file, got %v", err)
	}
}

func TestRunRankRequiresInputs(t *testing.T) {
	err := runRank(context.Background(), &bytes.Buffer{}, &Config{JD: "python"}, zap.NewNop())
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "--resumes") || !strings.Contains(err.Error(), "--skills") {
		t.Fatalf("expected missing flags in error, got %v", err)
	}
}

func TestRunRankMissingSkillsFile(t *testing.T) {
	config := rankFixture(t)
	config.Skills = filepath.Join(t.TempDir(), "missing.txt")

	if err := runRank(context.Background(), &bytes.Buffer{}, config, zap.NewNop()); err == nil {
		t.Fatalf("expected an error for a missing skills file")
	}
}

func TestNewRecognizer(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		rec, err := newRecognizer(context.Background(), RecognizerNone, nil, zap.NewNop())
		if err != nil || rec != nil {
			t.Fatalf("expected no recognizer, got %v, %v", rec, err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := newRecognizer(context.Background(), "spacy", nil, zap.NewNop()); err == nil {
			t.Fatalf("expected an error")
		}
	})

	t.Run("gemini without key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")

		_, err := newRecognizer(context.Background(), RecognizerGemini, &AIConfig{Gemini: &GeminiConfig{}}, zap.NewNop())
		if !errors.Is(err, ai.ErrModelUnavailable) {
			t.Fatalf("expected ErrModelUnavailable, got %v", err)
		}
		if ai.Hint(err) == "" {
			t.Fatalf("expected a remediation hint")
		}
	})
}

func TestDefaultOutput(t *testing.T) {
	t.Parallel()

	if got := defaultOutput("json"); got != "ranked_candidates.json" {
		t.Fatalf("unexpected default output %q", got)
	}
}
