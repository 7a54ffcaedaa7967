package analysis

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

// GeminiAnalyst grades interviews with an LLM. Raw scores from the model
// are clamped to the rubric; totals and the recommendation are computed
// here, never trusted from the model.
type GeminiAnalyst struct {
	client llm.Client
}

// NewGeminiAnalyst creates an analyst backed by the given LLM client.
func NewGeminiAnalyst(client llm.Client) *GeminiAnalyst {
	return &GeminiAnalyst{client: client}
}

type gradedQuestion struct {
	ID                string  `json:"id"`
	TechnicalAccuracy float64 `json:"technical_accuracy"`
	Depth             float64 `json:"depth"`
	Communication     float64 `json:"communication"`
	Ownership         float64 `json:"ownership"`
	Notes             string  `json:"notes"`
}

type gradesPayload struct {
	PerQuestion []gradedQuestion `json:"per_question"`
	Summary     string           `json:"summary"`
}

// Analyze grades every exchange and assembles the report. The payload is
// schema-checked, and every requested question id must be graded; a
// payload that skips one is a fatal analyst error.
func (a *GeminiAnalyst) Analyze(ctx context.Context, req *Request) (*types.Report, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	exchangesJSON, err := json.Marshal(req.Exchanges)
	if err != nil {
		return nil, faults.Validation("exchanges", "exchanges are not serializable: %v", err)
	}

	payload, err := a.client.GenerateJSON(ctx, buildGradingPrompt(string(exchangesJSON)), llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	if err := schemas.Validate("grades", payload); err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("grades payload rejected: %w", err))
	}

	var decoded gradesPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, faults.Fatal(serviceName, fmt.Errorf("failed to decode grades JSON: %w", err))
	}

	byID := make(map[string]gradedQuestion, len(decoded.PerQuestion))
	for _, g := range decoded.PerQuestion {
		byID[g.ID] = g
	}

	scores := make([]types.QuestionScore, 0, len(req.Exchanges))
	for _, ex := range req.Exchanges {
		g, ok := byID[ex.QuestionID]
		if !ok {
			return nil, faults.Fatal(serviceName, fmt.Errorf("grades payload missing question %s", ex.QuestionID))
		}
		scores = append(scores, types.QuestionScore{
			QuestionID:        ex.QuestionID,
			TechnicalAccuracy: clampScore(g.TechnicalAccuracy, maxTechnicalAccuracy),
			Depth:             clampScore(g.Depth, maxDepth),
			Communication:     clampScore(g.Communication, maxCommunication),
			Ownership:         clampScore(g.Ownership, maxOwnership),
			Notes:             g.Notes,
		})
	}

	return buildReport(req.CandidateID, scores, decoded.Summary), nil
}

// buildGradingPrompt constructs the grading prompt
func buildGradingPrompt(exchangesJSON string) string {
	template := prompts.MustGet("analyst.json", "grade-answers")
	return prompts.Format(template, map[string]string{
		"ExchangesJSON": exchangesJSON,
	})
}
