package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spigell/resume-screener/internal/pipeline"
	"github.com/spigell/resume-screener/internal/text"
)

// SnippetLength is how much of a resume the detailed view shows.
const SnippetLength = 1000

var (
	nameColor  = color.New(color.Bold)
	highColor  = color.New(color.FgGreen)
	midColor   = color.New(color.FgYellow)
	lowColor   = color.New(color.FgRed)
	faintColor = color.New(color.Faint)
)

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.5:
		return highColor
	case score >= 0.2:
		return midColor
	default:
		return lowColor
	}
}

// Percent renders a score as a percentage with two decimals.
func Percent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

// PrintSummary prints one line per record:
// "name (file): NN.NN% | skills: a;b | years: N".
func PrintSummary(w io.Writer, records []*pipeline.MatchRecord) {
	for _, r := range records {
		nameColor.Fprintf(w, "%s", r.DisplayName())
		fmt.Fprintf(w, " (%s): ", r.Document.ID)
		scoreColor(r.Score).Fprint(w, Percent(r.Score))
		fmt.Fprintf(w, " | skills: %s | years: %s\n", JoinSkills(r.MatchedSkills), formatYears(r.YearsOfExperience))
	}
}

// PrintDetails prints a block per record with optional text snippets.
func PrintDetails(w io.Writer, records []*pipeline.MatchRecord, snippet bool) {
	for _, r := range records {
		nameColor.Fprintf(w, "%s", r.Document.ID)
		fmt.Fprint(w, " - ")
		scoreColor(r.Score).Fprintf(w, "%s match\n", Percent(r.Score))

		skills := "None detected"
		if len(r.MatchedSkills) > 0 {
			skills = strings.Join(r.MatchedSkills, ", ")
		}
		fmt.Fprintf(w, "  Matched skills: %s\n", skills)

		years := "N/A"
		if r.YearsOfExperience != nil && *r.YearsOfExperience > 0 {
			years = formatYears(r.YearsOfExperience)
		}
		fmt.Fprintf(w, "  Years (heuristic): %s\n", years)

		if snippet {
			body := r.Document.NormalizedText
			if head := text.Prefix(body, SnippetLength); head != body {
				body = head + "..."
			}
			faintColor.Fprintf(w, "  %s\n", body)
		}
		fmt.Fprintln(w)
	}
}
