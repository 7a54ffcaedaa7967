// Package session holds the per-candidate interview state machine and a
// concurrency-safe keyed store for it. Each session moves forward through a
// fixed sequence of states; Failed and Analyzed are terminal. All mutation
// happens inside the store's per-key exclusive section, so different
// candidates never contend with each other.
package session

import (
	"time"

	"github.com/jonathan/interview-screener/internal/types"
)

// State identifies where a session sits in the interview lifecycle.
type State string

const (
	StateCreated            State = "Created"
	StateResumeParsed       State = "ResumeParsed"
	StateQuestionsGenerated State = "QuestionsGenerated"
	StateAnswering          State = "Answering"
	StateAllAnswered        State = "AllAnswered"
	StateAnalyzed           State = "Analyzed"
	StateFailed             State = "Failed"
)

// Session is the full interview record for one candidate. Fields are mutated
// only through Store.Update, which serializes access per candidate.
type Session struct {
	CandidateID string
	State       State

	Profile   *types.Profile
	Questions []types.Question

	// Answers is keyed by question id; resubmission overwrites.
	Answers map[string]types.Answer
	// Attempts counts submissions per question id, accepted or not,
	// so a flaky transcriber cannot be retried forever.
	Attempts map[string]int

	Report *types.Report

	// Analyzing marks an in-flight analyze call so a second one is
	// rejected instead of racing the first.
	Analyzing bool

	// FailureReason records what moved the session to Failed.
	FailureReason string

	CreatedAt    time.Time
	LastActivity time.Time
}

// New returns a Session in the Created state.
func New(candidateID string) *Session {
	now := time.Now()
	return &Session{
		CandidateID:  candidateID,
		State:        StateCreated,
		Answers:      make(map[string]types.Answer),
		Attempts:     make(map[string]int),
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Terminal reports whether the session can make no further transitions.
func (s *Session) Terminal() bool {
	return s.State == StateAnalyzed || s.State == StateFailed
}

// CanSubmitAnswer reports whether the session accepts answer submissions in
// its current state. Submissions are open from the moment questions exist
// until every question has an answer.
func (s *Session) CanSubmitAnswer() bool {
	return s.State == StateQuestionsGenerated || s.State == StateAnswering
}

// CanAnalyze reports whether an analyze transition is legal right now.
func (s *Session) CanAnalyze() bool {
	return s.State == StateAllAnswered && !s.Analyzing
}

// Question returns the question with the given id, if the session has one.
func (s *Session) Question(id string) (types.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return types.Question{}, false
}

// AllQuestionsAnswered reports whether every question id has an answer.
func (s *Session) AllQuestionsAnswered() bool {
	if len(s.Questions) == 0 {
		return false
	}
	for _, q := range s.Questions {
		if _, ok := s.Answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// RecordAnswer stores an answer (last write wins per question id) and
// advances the state: Answering on the first accepted answer, AllAnswered
// once the set is complete.
func (s *Session) RecordAnswer(a types.Answer) {
	s.Answers[a.QuestionID] = a
	if s.State == StateQuestionsGenerated {
		s.State = StateAnswering
	}
	if s.AllQuestionsAnswered() {
		s.State = StateAllAnswered
	}
	s.Touch()
}

// Fail moves the session to the terminal Failed state. No-op once terminal,
// so a late setup error cannot clobber a completed session.
func (s *Session) Fail(reason string) {
	if s.Terminal() {
		return
	}
	s.State = StateFailed
	s.FailureReason = reason
	s.Touch()
}

// Touch refreshes the activity timestamp used for idle expiry.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}
