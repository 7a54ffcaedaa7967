// Package parsing turns raw résumé documents into anonymized structured
// profiles. The primary implementation extracts the profile with an LLM;
// a keyword scanner serves as the offline fallback.
package parsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/prompts"
	"github.com/jonathan/interview-screener/internal/schemas"
	"github.com/jonathan/interview-screener/internal/types"
)

// maxResumeChars caps how much résumé text is sent to the extractor.
// Anything beyond this adds cost without improving the profile.
const maxResumeChars = 6000

const serviceName = "gemini"

// Parser extracts a structured candidate profile from raw résumé bytes.
type Parser interface {
	Parse(ctx context.Context, doc []byte) (*types.Profile, error)
}

// LLMParser extracts profiles with a Gemini model. The résumé text is
// anonymized before it leaves the process.
type LLMParser struct {
	client llm.Client
}

// NewLLMParser creates a parser backed by the given LLM client.
func NewLLMParser(client llm.Client) *LLMParser {
	return &LLMParser{client: client}
}

// Parse validates, anonymizes, and extracts a profile from the résumé
// document. The LLM payload is checked against the profile schema before
// it is decoded; a payload that fails validation is a fatal extractor
// error, not something a retry would fix.
func (p *LLMParser) Parse(ctx context.Context, doc []byte) (*types.Profile, error) {
	text, err := documentText(doc)
	if err != nil {
		return nil, err
	}

	text = Anonymize(text)
	if runes := []rune(text); len(runes) > maxResumeChars {
		text = string(runes[:maxResumeChars])
	}

	payload, err := p.client.GenerateJSON(ctx, buildProfilePrompt(text), llm.TierLite)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate("profile", payload); err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("profile payload rejected: %w", err))
	}

	profile, err := decodeProfile(payload)
	if err != nil {
		return nil, err
	}

	postProcessProfile(profile)
	return profile, nil
}

// documentText rejects documents the pipeline cannot treat as text and
// strips HTML résumés down to their visible text.
func documentText(doc []byte) (string, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return "", faults.Validation("resume", "document is empty")
	}
	if !utf8.Valid(doc) {
		return "", faults.Validation("resume", "document must be UTF-8 text")
	}
	text := string(doc)
	if looksLikeHTML(text) {
		return htmlToText(text)
	}
	return text, nil
}

// buildProfilePrompt constructs the extraction prompt
func buildProfilePrompt(resumeText string) string {
	template := prompts.MustGet("parse_resume.json", "extract-profile")
	return prompts.Format(template, map[string]string{
		"ResumeText": resumeText,
	})
}

// decodeProfile parses the schema-validated JSON payload into a Profile
func decodeProfile(payload string) (*types.Profile, error) {
	var profile types.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("failed to decode profile JSON: %w", err))
	}
	return &profile, nil
}

// postProcessProfile tidies the extracted profile: skills and tech stacks
// are trimmed and deduplicated case-insensitively, and year figures are
// clamped to zero.
func postProcessProfile(profile *types.Profile) {
	profile.Skills = dedupeStrings(profile.Skills)
	if profile.ExperienceYears < 0 {
		profile.ExperienceYears = 0
	}

	projects := make([]types.Project, 0, len(profile.Projects))
	for _, project := range profile.Projects {
		project.Title = strings.TrimSpace(project.Title)
		if project.Title == "" {
			continue
		}
		project.Description = strings.TrimSpace(project.Description)
		project.TechStack = dedupeStrings(project.TechStack)
		if project.Years < 0 {
			project.Years = 0
		}
		projects = append(projects, project)
	}
	profile.Projects = projects

	profile.Education = strings.TrimSpace(profile.Education)
	profile.Summary = strings.TrimSpace(profile.Summary)
}

// dedupeStrings trims entries and drops empties and case-insensitive
// duplicates, preserving first-seen order and casing.
func dedupeStrings(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		key := strings.ToLower(trimmed)
		if trimmed == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, trimmed)
	}
	return result
}
