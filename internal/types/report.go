package types

// Recommendation values produced by the analyst.
const (
	RecommendHire   = "HIRE"
	RecommendHold   = "HOLD"
	RecommendNoHire = "NO_HIRE"
)

// Report is the scored outcome of a completed interview. Created exactly
// once, on successful analysis; immutable afterward.
type Report struct {
	CandidateID    string `json:"candidate_id"`
	QuestionsCount int    `json:"questions_count"`
	Result         Result `json:"result"`
}

// Result groups the per-question scores with the aggregate verdict.
type Result struct {
	PerQuestion []QuestionScore `json:"per_question"`
	Aggregate   Aggregate       `json:"aggregate"`
}

// QuestionScore is the rubric breakdown for one question:
// technical accuracy 0-5, depth 0-5, communication 0-3, ownership 0-2.
type QuestionScore struct {
	QuestionID        string `json:"id"`
	TechnicalAccuracy int    `json:"technical_accuracy"`
	Depth             int    `json:"depth"`
	Communication     int    `json:"communication"`
	Ownership         int    `json:"ownership"`
	Total             int    `json:"total"`
	Notes             string `json:"notes,omitempty"`
}

// Aggregate is the summed verdict across all questions.
type Aggregate struct {
	TotalScore     int    `json:"total_score"`
	MaxScore       int    `json:"max_score"`
	Recommendation string `json:"recommendation"`
	Summary        string `json:"summary"`
}
