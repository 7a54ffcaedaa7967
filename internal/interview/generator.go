// Package interview generates the spoken screening questions for a
// candidate profile. The primary implementation asks an LLM; a template
// generator covers offline runs and tops up short LLM batches.
package interview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/llm"
	"github.com/jonathan/interview-screener/internal/prompts"
	"github.com/jonathan/interview-screener/internal/schemas"
	"github.com/jonathan/interview-screener/internal/types"
)

const serviceName = "gemini"

// Generator produces interview questions for a candidate profile.
type Generator interface {
	Generate(ctx context.Context, profile *types.Profile, count int) ([]types.Question, error)
}

// LLMGenerator asks a Gemini model for questions grounded in the profile.
type LLMGenerator struct {
	client llm.Client
}

// NewLLMGenerator creates a generator backed by the given LLM client.
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

// Generate returns exactly count questions with ids q1..qN in order. The
// model payload is schema-checked before decoding; a long batch is
// truncated and a short one topped up from the question templates, so
// callers always get the count they asked for.
func (g *LLMGenerator) Generate(ctx context.Context, profile *types.Profile, count int) ([]types.Question, error) {
	if err := validateRequest(profile, count); err != nil {
		return nil, err
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, faults.Validation("profile", "profile is not serializable: %v", err)
	}

	payload, err := g.client.GenerateJSON(ctx, buildQuestionPrompt(string(profileJSON), count), llm.TierStandard)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate("questions", payload); err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("questions payload rejected: %w", err))
	}

	var decoded struct {
		Questions []types.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("failed to decode questions JSON: %w", err))
	}

	questions := decoded.Questions
	if len(questions) > count {
		questions = questions[:count]
	}
	if len(questions) < count {
		questions = topUp(questions, profile, count)
	}
	renumber(questions)
	return questions, nil
}

// buildQuestionPrompt constructs the question generation prompt
func buildQuestionPrompt(profileJSON string, count int) string {
	template := prompts.MustGet("interviewer.json", "generate-questions")
	return prompts.Format(template, map[string]string{
		"Count":       fmt.Sprintf("%d", count),
		"ProfileJSON": profileJSON,
	})
}

// topUp extends a short batch with template questions, skipping any whose
// text duplicates a question already present.
func topUp(questions []types.Question, profile *types.Profile, count int) []types.Question {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		seen[q.Text] = true
	}
	for _, q := range templateQuestions(profile, count+len(questions)) {
		if len(questions) >= count {
			break
		}
		if seen[q.Text] {
			continue
		}
		seen[q.Text] = true
		questions = append(questions, q)
	}
	return questions
}

// renumber assigns ordinal ids q1..qN regardless of what the model chose.
func renumber(questions []types.Question) {
	for i := range questions {
		questions[i].ID = fmt.Sprintf("q%d", i+1)
	}
}

func validateRequest(profile *types.Profile, count int) error {
	if profile == nil {
		return faults.Validation("profile", "profile is required")
	}
	if count < 1 {
		return faults.Validation("count", "question count must be at least 1, got %d", count)
	}
	return nil
}
