package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/analysis"
	"github.com/jonathan/interview-screener/internal/blob"
	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/session"
	"github.com/jonathan/interview-screener/internal/types"
)

// Analyze grades a fully answered interview and moves the session to its
// terminal Analyzed state. Legal only once every question has an answer; a
// second call while one is in flight is rejected rather than raced. On
// analyst failure the session stays AllAnswered so the call can be retried.
func (o *Orchestrator) Analyze(ctx context.Context, candidateID string) (*types.Report, error) {
	var req *analysis.Request
	if err := o.store.Update(candidateID, func(s *session.Session) error {
		if !s.CanAnalyze() {
			current := string(s.State)
			if s.Analyzing {
				current += " (analysis in flight)"
			}
			return faults.State("analyze", current)
		}
		s.Analyzing = true
		s.Touch()
		req = exchangesFrom(s)
		return nil
	}); err != nil {
		return nil, err
	}

	logger := o.logger.With(zap.String("candidate_id", candidateID))

	var report *types.Report
	start := time.Now()
	err := o.retryTransient(ctx, "analysis", func() error {
		var aerr error
		report, aerr = o.analyst.Analyze(ctx, req)
		return aerr
	})
	if err != nil {
		o.metrics.RecordAnalysis("failure", time.Since(start).Seconds())
		logger.Warn("analysis failed, session stays open for retry", zap.Error(err))
		if uerr := o.store.Update(candidateID, func(s *session.Session) error {
			s.Analyzing = false
			return nil
		}); uerr != nil {
			logger.Warn("could not clear analyzing flag", zap.Error(uerr))
		}
		return nil, err
	}
	o.metrics.RecordAnalysis("success", time.Since(start).Seconds())

	if err := o.store.Update(candidateID, func(s *session.Session) error {
		s.Analyzing = false
		s.Report = report
		s.State = session.StateAnalyzed
		s.Touch()
		return nil
	}); err != nil {
		return nil, err
	}
	logger.Info("interview analyzed",
		zap.Int("questions", report.QuestionsCount),
		zap.String("recommendation", report.Result.Aggregate.Recommendation))

	o.persistReport(candidateID, report)
	return report, nil
}

// exchangesFrom snapshots the question/answer pairs in question order for
// the analyst, copied so the analyst never touches live session state.
func exchangesFrom(s *session.Session) *analysis.Request {
	exchanges := make([]analysis.Exchange, 0, len(s.Questions))
	for _, q := range s.Questions {
		a := s.Answers[q.ID]
		exchanges = append(exchanges, analysis.Exchange{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			IdealAnswer:  q.IdealAnswer,
			Transcript:   a.Transcript,
		})
	}
	return &analysis.Request{CandidateID: s.CandidateID, Exchanges: exchanges}
}

// persistReport writes the report JSON next to the session audio so it
// outlives session expiry. Best effort: the in-session copy is what the
// API serves.
func (o *Orchestrator) persistReport(candidateID string, report *types.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data, err := json.Marshal(report)
	if err != nil {
		o.logger.Warn("report not serializable",
			zap.String("candidate_id", candidateID), zap.Error(err))
		return
	}
	if err := o.blobs.Put(ctx, blob.ReportRef(candidateID), "application/json", data); err != nil {
		o.logger.Warn("failed to persist report",
			zap.String("candidate_id", candidateID), zap.Error(err))
	}
}
