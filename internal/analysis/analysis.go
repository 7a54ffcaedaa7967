// Package analysis grades a completed interview: every question's
// transcript against its ideal answer, plus an aggregate verdict. The
// primary implementation asks an LLM to score the rubric; a keyword
// heuristic covers offline runs.
package analysis

import (
	"context"
	"math"

	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/types"
)

const serviceName = "analyst"

// Rubric maxima per question. A perfect answer scores 15.
const (
	maxTechnicalAccuracy = 5
	maxDepth             = 5
	maxCommunication     = 3
	maxOwnership         = 2
	maxPerQuestion       = maxTechnicalAccuracy + maxDepth + maxCommunication + maxOwnership
)

// Recommendation thresholds as percentages of the maximum score.
const (
	hirePercent = 73
	holdPercent = 50
)

// Exchange pairs one question with the candidate's transcribed answer.
type Exchange struct {
	QuestionID   string `json:"id"`
	QuestionText string `json:"question"`
	IdealAnswer  string `json:"ideal_answer"`
	Transcript   string `json:"transcript"`
}

// Request carries everything the analyst needs to grade an interview.
type Request struct {
	CandidateID string
	Exchanges   []Exchange
}

// Analyst grades a completed interview into a report.
type Analyst interface {
	Analyze(ctx context.Context, req *Request) (*types.Report, error)
}

func validateRequest(req *Request) error {
	if req == nil {
		return faults.Validation("request", "analysis request is required")
	}
	if req.CandidateID == "" {
		return faults.Validation("candidate_id", "candidate id is required")
	}
	if len(req.Exchanges) == 0 {
		return faults.Validation("exchanges", "at least one exchange is required")
	}
	for i, ex := range req.Exchanges {
		if ex.QuestionID == "" {
			return faults.Validation("exchanges", "exchange %d has no question id", i)
		}
	}
	return nil
}

// buildReport fills in per-question totals and the aggregate verdict.
// Scores must already be clamped to the rubric.
func buildReport(candidateID string, scores []types.QuestionScore, summary string) *types.Report {
	total := 0
	for i := range scores {
		scores[i].Total = scores[i].TechnicalAccuracy + scores[i].Depth +
			scores[i].Communication + scores[i].Ownership
		total += scores[i].Total
	}
	maxScore := maxPerQuestion * len(scores)

	recommendation := types.RecommendNoHire
	switch {
	case total*100 >= hirePercent*maxScore:
		recommendation = types.RecommendHire
	case total*100 >= holdPercent*maxScore:
		recommendation = types.RecommendHold
	}

	return &types.Report{
		CandidateID:    candidateID,
		QuestionsCount: len(scores),
		Result: types.Result{
			PerQuestion: scores,
			Aggregate: types.Aggregate{
				TotalScore:     total,
				MaxScore:       maxScore,
				Recommendation: recommendation,
				Summary:        summary,
			},
		},
	}
}

// clampScore rounds a raw rubric value and clamps it to [0, max].
func clampScore(v float64, max int) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}
