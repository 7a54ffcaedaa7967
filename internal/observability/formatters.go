// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs a human-readable summary of the extracted candidate
// profile.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	if profile.ExperienceYears > 0 {
		sb.WriteString(fmt.Sprintf("Experience: %.1f years\n", profile.ExperienceYears))
	}
	if profile.Education != "" {
		sb.WriteString(fmt.Sprintf("Education:  %s\n", profile.Education))
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}

	if len(profile.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Skills[i]))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.Projects) > 0 {
		sb.WriteString("Projects:\n")
		count := min(len(profile.Projects), 3)
		for i := 0; i < count; i++ {
			project := profile.Projects[i]
			title := project.Title
			if len(title) > 45 {
				title = title[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s", title))
			if project.Years > 0 {
				sb.WriteString(fmt.Sprintf(" (%.1fy)", project.Years))
			}
			sb.WriteString("\n")
			if len(project.TechStack) > 0 {
				stack := strings.Join(project.TechStack, ", ")
				if len(stack) > 40 {
					stack = stack[:37] + "..."
				}
				sb.WriteString(fmt.Sprintf("    [%s]\n", stack))
			}
		}
		if len(profile.Projects) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Projects)-3))
		}
	}

	p.printBox("CANDIDATE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestions outputs the generated question set.
func (p *Printer) PrintQuestions(questions []types.Question) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d questions:\n\n", len(questions)))

	count := min(len(questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		q := questions[i]
		text := q.Text
		if len(text) > 48 {
			text = text[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", q.ID, text))
		if q.AudioReference != "" {
			sb.WriteString(fmt.Sprintf("    audio: %s\n", q.AudioReference))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more questions", len(questions)-maxItemsToShow))
	}

	p.printBox("INTERVIEW QUESTIONS", sb.String())
}

// PrintReport outputs per-question scores and the aggregate verdict.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder

	for _, score := range report.Result.PerQuestion {
		sb.WriteString(fmt.Sprintf("%s  total %2d  (tech %d, depth %d, comm %d, own %d)\n",
			score.QuestionID, score.Total,
			score.TechnicalAccuracy, score.Depth, score.Communication, score.Ownership))
	}
	if len(report.Result.PerQuestion) > 0 {
		sb.WriteString("\n")
	}

	agg := report.Result.Aggregate
	sb.WriteString(fmt.Sprintf("Score:          %d / %d\n", agg.TotalScore, agg.MaxScore))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", agg.Recommendation))

	if agg.Summary != "" {
		sb.WriteString("\n")
		// Wrap the summary to the box width.
		for _, line := range wrapText(agg.Summary, boxWidth-6) {
			sb.WriteString(line + "\n")
		}
	}

	p.printBox("SCREENING REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// wrapText greedily wraps s into lines of at most width characters.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
