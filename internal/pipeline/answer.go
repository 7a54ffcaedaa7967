package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/audio"
	"github.com/jonathan/interview-screener/internal/blob"
	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/session"
	"github.com/jonathan/interview-screener/internal/types"
)

// SubmitAnswer ingests one spoken answer: normalize the audio, store the
// original and canonical bytes, transcribe, and commit the answer to the
// session. Resubmitting a question id overwrites the previous answer until
// the per-question budget runs out. Returns the transcript of the accepted
// answer.
//
// Only admission and the final commit hold the candidate's lock; the
// external calls in between run unlocked, so a slow transcription does not
// serialize other submissions for the same candidate. The commit re-checks
// the session state, so work for a session that failed or finished in the
// meantime is dropped, never half-applied.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, candidateID, questionID string, raw []byte) (string, error) {
	if err := o.store.Update(candidateID, func(s *session.Session) error {
		if !s.CanSubmitAnswer() {
			return faults.State("submit answer", string(s.State))
		}
		if _, ok := s.Question(questionID); !ok {
			return faults.NotFound("question", questionID)
		}
		if s.Attempts[questionID] >= o.cfg.MaxSubmissionAttempts {
			return faults.Validation("question_id",
				"submission budget exhausted for %s (%d attempts)", questionID, o.cfg.MaxSubmissionAttempts)
		}
		s.Attempts[questionID]++
		s.Touch()
		return nil
	}); err != nil {
		return "", err
	}

	status := "rejected"
	defer func() { o.metrics.RecordAnswerSubmitted(status) }()

	logger := o.logger.With(
		zap.String("candidate_id", candidateID),
		zap.String("question_id", questionID))

	normStart := time.Now()
	normalized, err := audio.Normalize(raw)
	if err != nil {
		logger.Warn("answer audio rejected", zap.Error(err))
		return "", err
	}
	o.metrics.RecordNormalization(time.Since(normStart).Seconds())

	rawRef := blob.AnswerRef(candidateID, questionID)
	normRef := blob.NormalizedAnswerRef(candidateID, questionID)
	if err := o.blobs.Put(ctx, rawRef, "audio/wav", raw); err != nil {
		return "", fmt.Errorf("storing submitted audio: %w", err)
	}
	if err := o.blobs.Put(ctx, normRef, "audio/wav", normalized); err != nil {
		return "", fmt.Errorf("storing normalized audio: %w", err)
	}

	var transcript string
	txStart := time.Now()
	err = o.retryTransient(ctx, "transcription", func() error {
		var terr error
		transcript, terr = o.transcriber.Transcribe(ctx, normalized)
		return terr
	})
	o.metrics.RecordTranscription(err == nil, time.Since(txStart).Seconds())
	if err != nil {
		logger.Warn("transcription failed, question stays unanswered", zap.Error(err))
		return "", err
	}

	if err := o.store.Update(candidateID, func(s *session.Session) error {
		if !s.CanSubmitAnswer() {
			return faults.State("record answer", string(s.State))
		}
		s.RecordAnswer(types.Answer{
			QuestionID:         questionID,
			RawAudioRef:        rawRef,
			NormalizedAudioRef: normRef,
			Transcript:         transcript,
		})
		return nil
	}); err != nil {
		return "", err
	}

	status = "accepted"
	logger.Info("answer recorded", zap.Int("transcript_chars", len(transcript)))
	return transcript, nil
}
