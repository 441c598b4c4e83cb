package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spigell/resume-screener/internal/text"
)

// Document is a resume read from disk. NormalizedText is derived once on construction.
type Document struct {
	ID             string
	RawText        string
	NormalizedText string
}

func New(id, raw string) *Document {
	return &Document{
		ID:             id,
		RawText:        raw,
		NormalizedText: text.Normalize(raw),
	}
}

// Texts returns the normalized text of every document, in order.
func Texts(docs []*Document) []string {
	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.NormalizedText)
	}
	return texts
}

// ListFiles returns the regular files directly inside dir, sorted by name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resumes folder: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	return paths, nil
}

// Load extracts every path into a Document keyed by the file's base name.
// onDocument, when set, is called after each document is read.
func Load(ctx context.Context, paths []string, extractor *Extractor, onDocument func(*Document)) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc := New(filepath.Base(path), extractor.Extract(ctx, path))
		docs = append(docs, doc)

		if onDocument != nil {
			onDocument(doc)
		}
	}
	return docs, nil
}

// ResolveJD returns the contents of the file named by arg, or arg itself when
// it does not name a regular file.
func ResolveJD(arg string) (string, error) {
	path := strings.TrimSpace(arg)
	if path == "" {
		return arg, nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return arg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job description %q: %w", path, err)
	}
	return string(data), nil
}
