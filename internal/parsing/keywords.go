package parsing

import (
	"context"
	"strings"

	"github.com/jonathan/interview-screener/internal/types"
)

// summaryChars is how much of the résumé opening becomes the fallback
// profile summary.
const summaryChars = 180

// fallbackSkills is the fixed vocabulary the keyword parser scans for.
var fallbackSkills = []string{
	"python", "java", "react", "node", "sql", "docker",
	"kubernetes", "gcp", "aws", "tensorflow", "pytorch",
}

// KeywordParser is the offline Parser: a fixed-vocabulary keyword scan
// used when no LLM is configured. Profiles it produces are coarse but
// good enough to drive the fallback question generator.
type KeywordParser struct{}

// Parse extracts a rough profile by scanning for known skill keywords and
// project-describing lines. Input validation and anonymization match the
// LLM parser so the two are interchangeable.
func (KeywordParser) Parse(_ context.Context, doc []byte) (*types.Profile, error) {
	text, err := documentText(doc)
	if err != nil {
		return nil, err
	}
	text = Anonymize(text)
	lower := strings.ToLower(text)

	skills := make([]string, 0, len(fallbackSkills))
	for _, keyword := range fallbackSkills {
		if strings.Contains(lower, keyword) {
			skills = append(skills, keyword)
		}
	}

	var projects []types.Project
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(strings.TrimLeft(line, " \t-*•"))
		if trimmed == "" {
			continue
		}
		lowerLine := strings.ToLower(trimmed)
		if strings.Contains(lowerLine, "project") || strings.Contains(lowerLine, "worked on") {
			projects = append(projects, types.Project{Title: truncateRunes(trimmed, 120)})
		}
	}

	return &types.Profile{
		Skills:   skills,
		Projects: projects,
		Summary:  truncateRunes(strings.TrimSpace(text), summaryChars),
	}, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
