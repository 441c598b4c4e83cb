package document

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStrategy struct {
	name  string
	out   string
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(context.Context, string) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestExtractorStopsAtFirstSuccess(t *testing.T) {
	failing := &fakeStrategy{name: "primary", err: errors.New("broken")}
	empty := &fakeStrategy{name: "secondary", out: "   "}
	working := &fakeStrategy{name: "tertiary", out: " text "}
	unused := &fakeStrategy{name: "last", out: "other"}

	out, strategy, err := NewExtractor(nil, failing, empty, working, unused).Try(context.Background(), "cv.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "text" || strategy != "tertiary" {
		t.Fatalf("unexpected result %q from %q", out, strategy)
	}
	if unused.calls != 0 {
		t.Fatalf("strategies after a success must not run")
	}
}

func TestExtractorTotalFailureYieldsEmptyText(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	extractor := NewExtractor(zap.New(core),
		&fakeStrategy{name: "a", err: errors.New("first")},
		&fakeStrategy{name: "b", err: errors.New("second")},
	)

	_, _, err := extractor.Try(context.Background(), "cv.pdf")
	if err == nil {
		t.Fatalf("expected joined error")
	}

	if got := extractor.Extract(context.Background(), "cv.pdf"); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if observed.Len() != 1 {
		t.Fatalf("expected one warning, got %d", observed.Len())
	}
}

func TestExtractorWithoutStrategies(t *testing.T) {
	extractor := &Extractor{logger: zap.NewNop()}

	if _, _, err := extractor.Try(context.Background(), "cv.pdf"); !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("expected ErrNoStrategy, got %v", err)
	}
}

func TestDefaultStrategiesReadPlainText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cv.txt", "Jane Doe\n5 years of Go")

	out, strategy, err := NewExtractor(nil).Try(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strategy != "text" {
		t.Fatalf("expected text strategy, got %q", strategy)
	}
	if out != "Jane Doe\n5 years of Go" {
		t.Fatalf("unexpected text: %q", out)
	}
}

func TestPlainTextRejectsPDFAndBinary(t *testing.T) {
	dir := t.TempDir()
	pdfPath := writeFile(t, dir, "fake.pdf", "%PDF-1.7 garbage")
	binPath := writeFile(t, dir, "blob.bin", string([]byte{0xff, 0xfe, 0xfd}))

	if _, err := (PlainText{}).Extract(context.Background(), pdfPath); err == nil {
		t.Fatalf("expected pdf to be rejected")
	}
	if _, err := (PlainText{}).Extract(context.Background(), binPath); err == nil {
		t.Fatalf("expected binary to be rejected")
	}
	if _, err := (PlainText{}).Extract(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected missing file error")
	}
}
