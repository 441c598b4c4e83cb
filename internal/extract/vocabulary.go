package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ErrEmptyVocabulary is returned when a vocabulary source holds no skills.
var ErrEmptyVocabulary = errors.New("skill vocabulary is empty")

var defaultVocabulary = []string{
	"python", "java", "javascript", "react", "node",
	"django", "flask", "sql", "aws", "docker",
}

// DefaultVocabulary returns a copy of the built-in skill list.
func DefaultVocabulary() []string {
	return slices.Clone(defaultVocabulary)
}

// LoadVocabulary reads a skill list from path, one skill per line.
func LoadVocabulary(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening skills file: %w", err)
	}
	defer file.Close()

	skills, err := ParseVocabulary(file)
	if err != nil {
		return nil, fmt.Errorf("reading skills file %q: %w", path, err)
	}
	return skills, nil
}

// ParseVocabulary reads one skill per line, trimming whitespace and skipping blank lines.
func ParseVocabulary(r io.Reader) ([]string, error) {
	skills := make([]string, 0)

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		skills = append(skills, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(skills) == 0 {
		return nil, ErrEmptyVocabulary
	}
	return skills, nil
}
