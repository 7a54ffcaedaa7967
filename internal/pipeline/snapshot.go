package pipeline

import (
	"time"

	"github.com/jonathan/interview-screener/internal/session"
	"github.com/jonathan/interview-screener/internal/types"
)

// Snapshot is a point-in-time view of one session for the status endpoint.
type Snapshot struct {
	CandidateID   string           `json:"candidate_id"`
	State         session.State    `json:"state"`
	Questions     []types.Question `json:"questions"`
	AnsweredIDs   []string         `json:"answered_ids"`
	Report        *types.Report    `json:"report,omitempty"`
	FailureReason string           `json:"failure_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	LastActivity  time.Time        `json:"last_activity"`
}

// Snapshot copies the observable state of a session. Answered ids come back
// in question order. The report pointer is shared; reports are immutable
// once created.
func (o *Orchestrator) Snapshot(candidateID string) (*Snapshot, error) {
	var snap Snapshot
	if err := o.store.View(candidateID, func(s *session.Session) {
		snap = Snapshot{
			CandidateID:   s.CandidateID,
			State:         s.State,
			Questions:     append([]types.Question(nil), s.Questions...),
			Report:        s.Report,
			FailureReason: s.FailureReason,
			CreatedAt:     s.CreatedAt,
			LastActivity:  s.LastActivity,
		}
		for _, q := range s.Questions {
			if _, ok := s.Answers[q.ID]; ok {
				snap.AnsweredIDs = append(snap.AnsweredIDs, q.ID)
			}
		}
	}); err != nil {
		return nil, err
	}
	return &snap, nil
}
