package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extract"
)

type stubRecognizer struct {
	entities []ai.Entity
	err      error
	calls    int
}

func (s *stubRecognizer) Recognize(context.Context, string) ([]ai.Entity, error) {
	s.calls++
	return s.entities, s.err
}

func (s *stubRecognizer) Close() error { return nil }

func TestRunEmptyBatch(t *testing.T) {
	records, err := New(Options{}, nil).Run(context.Background(), nil, "python developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected an empty, non-nil slice, got %v", records)
	}
}

func TestRunRanksAndExtracts(t *testing.T) {
	docs := []*document.Document{
		document.New("chef.txt", "cooking recipes"),
		document.New("dev.txt", "Python Java SQL\n 6+ years, 2 years at startups"),
	}

	records, err := New(Options{Vocabulary: []string{"SQL", "python", "java", "docker"}}, nil).
		Run(context.Background(), docs, "  looking for a\npython developer ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	top := records[0]
	if top.Document.ID != "dev.txt" {
		t.Fatalf("expected dev.txt first, got %s", top.Document.ID)
	}
	if top.Score <= records[1].Score {
		t.Fatalf("expected strictly higher score, got %v and %v", top.Score, records[1].Score)
	}
	if !reflect.DeepEqual(top.MatchedSkills, []string{"java", "python", "SQL"}) {
		t.Fatalf("unexpected skills: %v", top.MatchedSkills)
	}
	if top.YearsOfExperience == nil || *top.YearsOfExperience != 6 {
		t.Fatalf("expected 6 years, got %v", top.YearsOfExperience)
	}
	if top.CandidateName != nil {
		t.Fatalf("names must not be extracted without a recognizer")
	}

	chef := records[1]
	if len(chef.MatchedSkills) != 0 || chef.YearsOfExperience != nil {
		t.Fatalf("expected no facts for chef, got %+v", chef)
	}
}

func TestRunKeepsInputOrderOnTies(t *testing.T) {
	docs := []*document.Document{
		document.New("first.txt", "gardening"),
		document.New("second.txt", "painting"),
		document.New("third.txt", "golang"),
		document.New("fourth.txt", "knitting"),
	}

	records, err := New(Options{}, nil).Run(context.Background(), docs, "golang engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.Document.ID)
	}
	expect := []string{"third.txt", "first.txt", "second.txt", "fourth.txt"}
	if !reflect.DeepEqual(ids, expect) {
		t.Fatalf("expected %v, got %v", expect, ids)
	}
}

func TestRunExtractsNames(t *testing.T) {
	stub := &stubRecognizer{entities: []ai.Entity{{Text: "Jane Doe", Label: ai.LabelPerson}}}
	docs := []*document.Document{document.New("jane.txt", "Jane Doe python")}

	records, err := New(Options{Names: extract.NewNameExtractor(stub, nil)}, nil).
		Run(context.Background(), docs, "python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if records[0].CandidateName == nil || *records[0].CandidateName != "Jane Doe" {
		t.Fatalf("expected candidate name, got %v", records[0].CandidateName)
	}
	if records[0].DisplayName() != "Jane Doe" {
		t.Fatalf("unexpected display name: %s", records[0].DisplayName())
	}
}

func TestRunAbortsWhenModelUnavailable(t *testing.T) {
	stub := &stubRecognizer{err: ai.Unavailable("prose", "reinstall", nil)}
	docs := []*document.Document{document.New("jane.txt", "Jane Doe python")}

	_, err := New(Options{Names: extract.NewNameExtractor(stub, nil)}, nil).
		Run(context.Background(), docs, "python")
	if !errors.Is(err, ai.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestRunDegradesOnRecognizerError(t *testing.T) {
	stub := &stubRecognizer{err: errors.New("flaky")}
	docs := []*document.Document{document.New("jane.txt", "Jane Doe python")}

	records, err := New(Options{Names: extract.NewNameExtractor(stub, nil)}, nil).
		Run(context.Background(), docs, "python")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].CandidateName != nil {
		t.Fatalf("expected missing name")
	}
	if records[0].DisplayName() != "jane.txt" {
		t.Fatalf("expected filename fallback, got %s", records[0].DisplayName())
	}
}
