// Package report writes ranked match records as CSV, JSON or YAML.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-screener/internal/pipeline"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"

	skillSeparator = ";"
)

// Header is the column order of the CSV contract.
var Header = []string{"filename", "candidate_name", "match_score", "matched_skills", "years_experience"}

// Row is the serialized form of a match record.
type Row struct {
	Filename        string   `json:"filename" yaml:"filename"`
	CandidateName   string   `json:"candidate_name" yaml:"candidate_name"`
	MatchScore      float64  `json:"match_score" yaml:"match_score"`
	MatchedSkills   []string `json:"matched_skills" yaml:"matched_skills"`
	YearsExperience *int     `json:"years_experience" yaml:"years_experience"`
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name, defaulting to CSV when empty.
func ParseFormat(s string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(s))
	switch format {
	case "":
		return FormatCSV, nil
	case "yml":
		return FormatYAML, nil
	case FormatCSV, FormatJSON, FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: %s)", s, strings.Join(Formats(), ", "))
	}
}

// Rows converts records into output rows. The candidate name falls back to the filename.
func Rows(records []*pipeline.MatchRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		skills := r.MatchedSkills
		if skills == nil {
			skills = []string{}
		}
		rows = append(rows, Row{
			Filename:        r.Document.ID,
			CandidateName:   r.DisplayName(),
			MatchScore:      r.Score,
			MatchedSkills:   skills,
			YearsExperience: r.YearsOfExperience,
		})
	}
	return rows
}

// JoinSkills renders skills in the CSV matched_skills form.
func JoinSkills(skills []string) string {
	return strings.Join(skills, skillSeparator)
}

// SplitSkills parses the CSV matched_skills form. An empty field is an empty set.
func SplitSkills(field string) []string {
	if field == "" {
		return []string{}
	}
	return strings.Split(field, skillSeparator)
}

// FormatScore renders a score as the shortest decimal that round-trips.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatYears(years *int) string {
	if years == nil {
		return ""
	}
	return strconv.Itoa(*years)
}

// WriteCSV writes the header and one line per record.
func WriteCSV(w io.Writer, records []*pipeline.MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, row := range Rows(records) {
		line := []string{
			row.Filename,
			row.CandidateName,
			FormatScore(row.MatchScore),
			JoinSkills(row.MatchedSkills),
			formatYears(row.YearsExperience),
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Write renders records in the requested format.
func Write(w io.Writer, format string, records []*pipeline.MatchRecord) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Rows(records))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Rows(records)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return WriteCSV(w, records)
	}
}

// WriteFile writes records to path atomically: the content lands in a
// temporary file next to path and is renamed over it only when complete.
func WriteFile(path, format string, records []*pipeline.MatchRecord) (err error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, format, records); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary output: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}
