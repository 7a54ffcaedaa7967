package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/llm"
)

type stubLLM struct {
	payload string
	err     error
	prompt  string
	tier    llm.ModelTier
}

func (s *stubLLM) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.record(prompt, tier)
}

func (s *stubLLM) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.record(prompt, tier)
}

func (s *stubLLM) record(prompt string, tier llm.ModelTier) (string, error) {
	s.prompt = prompt
	s.tier = tier
	if s.err != nil {
		return "", s.err
	}
	return s.payload, nil
}

func (s *stubLLM) GetModel(llm.ModelTier) string { return "stub-model" }
func (s *stubLLM) Close() error                  { return nil }

func sampleRequest() *Request {
	return &Request{
		CandidateID: "cand-1a2b3c4d",
		Exchanges: []Exchange{
			{
				QuestionID:   "q1",
				QuestionText: "Tell me about your last project.",
				IdealAnswer:  "Covers scope, role, and a concrete challenge.",
				Transcript:   "I rebuilt the billing pipeline and owned the rollout.",
			},
			{
				QuestionID:   "q2",
				QuestionText: "How do you approach debugging?",
				IdealAnswer:  "Hypothesis-driven, uses tooling, narrows the search.",
				Transcript:   "I reproduce first, then bisect with logs and a debugger.",
			},
		},
	}
}

func TestGeminiAnalystAnalyze(t *testing.T) {
	// q2 graded first: alignment is by id, not payload order.
	payload := `{
		"per_question": [
			{"id": "q2", "technical_accuracy": 4, "depth": 3, "communication": 2, "ownership": 2, "notes": "Clear method."},
			{"id": "q1", "technical_accuracy": 5, "depth": 4, "communication": 3, "ownership": 2, "notes": "Strong ownership."}
		],
		"summary": "Confident and specific across both answers."
	}`
	stub := &stubLLM{payload: payload}
	analyst := NewGeminiAnalyst(stub)

	report, err := analyst.Analyze(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, llm.TierAdvanced, stub.tier)
	assert.Contains(t, stub.prompt, "billing pipeline")

	require.Len(t, report.Result.PerQuestion, 2)
	assert.Equal(t, "q1", report.Result.PerQuestion[0].QuestionID)
	assert.Equal(t, 14, report.Result.PerQuestion[0].Total)
	assert.Equal(t, "q2", report.Result.PerQuestion[1].QuestionID)
	assert.Equal(t, 11, report.Result.PerQuestion[1].Total)
	assert.Equal(t, 25, report.Result.Aggregate.TotalScore)
	assert.Equal(t, 30, report.Result.Aggregate.MaxScore)
	assert.Equal(t, "Confident and specific across both answers.", report.Result.Aggregate.Summary)
}

func TestGeminiAnalystClampsScores(t *testing.T) {
	payload := `{
		"per_question": [
			{"id": "q1", "technical_accuracy": 9, "depth": -2, "communication": 2.6, "ownership": 2, "notes": ""},
			{"id": "q2", "technical_accuracy": 0, "depth": 0, "communication": 0, "ownership": 0, "notes": ""}
		],
		"summary": "s"
	}`
	analyst := NewGeminiAnalyst(&stubLLM{payload: payload})

	report, err := analyst.Analyze(context.Background(), sampleRequest())

	require.NoError(t, err)
	q1 := report.Result.PerQuestion[0]
	assert.Equal(t, 5, q1.TechnicalAccuracy)
	assert.Equal(t, 0, q1.Depth)
	assert.Equal(t, 3, q1.Communication)
	assert.Equal(t, 2, q1.Ownership)
	assert.Equal(t, 10, q1.Total)
}

func TestGeminiAnalystMissingQuestionIsFatal(t *testing.T) {
	payload := `{
		"per_question": [
			{"id": "q1", "technical_accuracy": 4, "depth": 3, "communication": 2, "ownership": 1, "notes": ""}
		],
		"summary": "only one graded"
	}`
	analyst := NewGeminiAnalyst(&stubLLM{payload: payload})

	_, err := analyst.Analyze(context.Background(), sampleRequest())

	require.Error(t, err)
	var ext *faults.ExternalError
	require.ErrorAs(t, err, &ext)
	assert.False(t, ext.Transient)
	assert.Contains(t, err.Error(), "q2")
}

func TestGeminiAnalystRejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty grades", payload: `{"per_question": [], "summary": "s"}`},
		{name: "missing summary", payload: `{"per_question": [{"id": "q1", "technical_accuracy": 1, "depth": 1, "communication": 1, "ownership": 1}]}`},
		{name: "missing score field", payload: `{"per_question": [{"id": "q1", "technical_accuracy": 1}], "summary": "s"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyst := NewGeminiAnalyst(&stubLLM{payload: tt.payload})

			_, err := analyst.Analyze(context.Background(), sampleRequest())

			require.Error(t, err)
			var ext *faults.ExternalError
			require.ErrorAs(t, err, &ext)
			assert.False(t, ext.Transient)
		})
	}
}

func TestGeminiAnalystPropagatesClientError(t *testing.T) {
	analyst := NewGeminiAnalyst(&stubLLM{err: faults.Transient("gemini", assert.AnError)})

	_, err := analyst.Analyze(context.Background(), sampleRequest())

	assert.True(t, faults.IsTransient(err))
}

func TestGeminiAnalystRejectsBadRequest(t *testing.T) {
	analyst := NewGeminiAnalyst(&stubLLM{})

	_, err := analyst.Analyze(context.Background(), &Request{CandidateID: "cand-1"})

	assert.True(t, faults.IsValidation(err))
}
