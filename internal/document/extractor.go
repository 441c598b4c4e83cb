package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/tmc/langchaingo/documentloaders"
	"go.uber.org/zap"
)

// ErrNoText is returned by a strategy that ran but produced no text.
var ErrNoText = errors.New("no text extracted")

// ErrNoStrategy is returned when an extractor has nothing to try.
var ErrNoStrategy = errors.New("no extraction strategy configured")

var pdfMagic = []byte("%PDF-")

// Strategy turns a file into plain text.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string) (string, error)
}

// Extractor tries its strategies in order and keeps the first non-empty result.
type Extractor struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewExtractor builds an extractor. Without strategies it uses DefaultStrategies.
func NewExtractor(logger *zap.Logger, strategies ...Strategy) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{strategies: strategies, logger: logger}
}

// DefaultStrategies returns the pdf text, pdf pages and plain text strategies, in that order.
func DefaultStrategies() []Strategy {
	return []Strategy{PDFText{}, PDFPages{}, PlainText{}}
}

// Try runs the strategies until one succeeds and reports which one did.
func (e *Extractor) Try(ctx context.Context, path string) (string, string, error) {
	if len(e.strategies) == 0 {
		return "", "", ErrNoStrategy
	}

	errs := make([]error, 0, len(e.strategies))
	for _, strategy := range e.strategies {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		out, err := strategy.Extract(ctx, path)
		if err == nil && strings.TrimSpace(out) == "" {
			err = ErrNoText
		}
		if err != nil {
			e.logger.Debug("extraction strategy failed",
				zap.String("path", path),
				zap.String("strategy", strategy.Name()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", strategy.Name(), err))
			continue
		}

		return strings.TrimSpace(out), strategy.Name(), nil
	}

	return "", "", errors.Join(errs...)
}

// Extract returns the text of path. A file no strategy can read yields an empty string.
func (e *Extractor) Extract(ctx context.Context, path string) string {
	out, strategy, err := e.Try(ctx, path)
	if err != nil {
		e.logger.Warn("extracting text failed, using empty text",
			zap.String("path", path),
			zap.Error(err),
		)
		return ""
	}

	e.logger.Debug("extracted text",
		zap.String("path", path),
		zap.String("strategy", strategy),
		zap.Int("length", utf8.RuneCountInString(out)),
	)
	return out
}

// PDFText reads the whole document through the pdf plain text reader.
type PDFText struct{}

func (PDFText) Name() string { return "pdf" }

func (PDFText) Extract(_ context.Context, path string) (out string, err error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf: %v", r)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PDFPages loads the document page by page and joins the pages with newlines.
type PDFPages struct{}

func (PDFPages) Name() string { return "pdf-pages" }

func (PDFPages) Extract(ctx context.Context, path string) (out string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf pages: %v", r)
		}
	}()

	pages, err := documentloaders.NewPDF(file, info.Size()).Load(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.PageContent)
	}
	return strings.Join(parts, "\n"), nil
}

// PlainText reads UTF-8 text files. PDFs and binary files are rejected.
type PlainText struct{}

func (PlainText) Name() string { return "text" }

func (PlainText) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return "", errors.New("file is a pdf")
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid utf-8 text")
	}

	docs, err := documentloaders.NewText(bytes.NewReader(data)).Load(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.PageContent)
	}
	return strings.Join(parts, "\n"), nil
}
