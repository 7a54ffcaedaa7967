// Package pipeline orchestrates an interview session end to end: résumé
// parsing, question generation, question audio synthesis, answer capture,
// and final analysis. All session mutation goes through the store's
// per-candidate locking; external calls never run under a lock.
package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-screener/internal/analysis"
	"github.com/jonathan/interview-screener/internal/blob"
	"github.com/jonathan/interview-screener/internal/faults"
	"github.com/jonathan/interview-screener/internal/interview"
	"github.com/jonathan/interview-screener/internal/metrics"
	"github.com/jonathan/interview-screener/internal/parsing"
	"github.com/jonathan/interview-screener/internal/session"
	"github.com/jonathan/interview-screener/internal/synthesis"
	"github.com/jonathan/interview-screener/internal/transcription"
	"github.com/jonathan/interview-screener/internal/types"
)

// Config bounds the orchestrator's behavior. Zero values are replaced
// with the defaults below.
type Config struct {
	DefaultQuestions      int
	MaxQuestions          int
	MaxSubmissionAttempts int
	SynthesisConcurrency  int
	RetryAttempts         int
	RetryBaseDelay        time.Duration
	RetryMaxDelay         time.Duration
}

func (c *Config) applyDefaults() {
	if c.DefaultQuestions <= 0 {
		c.DefaultQuestions = 6
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = 12
	}
	if c.MaxSubmissionAttempts <= 0 {
		c.MaxSubmissionAttempts = 5
	}
	if c.SynthesisConcurrency <= 0 {
		c.SynthesisConcurrency = 4
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 500 * time.Millisecond
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = 30 * time.Second
	}
}

// Deps are the collaborators the orchestrator drives.
type Deps struct {
	Store       *session.Store
	Blobs       blob.Store
	Parser      parsing.Parser
	Generator   interview.Generator
	Synthesizer synthesis.Synthesizer
	Transcriber transcription.Transcriber
	Analyst     analysis.Analyst
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

// Orchestrator runs the interview pipeline.
type Orchestrator struct {
	store       *session.Store
	blobs       blob.Store
	parser      parsing.Parser
	generator   interview.Generator
	synthesizer synthesis.Synthesizer
	transcriber transcription.Transcriber
	analyst     analysis.Analyst
	metrics     *metrics.Metrics
	logger      *zap.Logger
	cfg         Config
}

// New creates an orchestrator from its collaborators.
func New(deps Deps, cfg Config) *Orchestrator {
	cfg.applyDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:       deps.Store,
		blobs:       deps.Blobs,
		parser:      deps.Parser,
		generator:   deps.Generator,
		synthesizer: deps.Synthesizer,
		transcriber: deps.Transcriber,
		analyst:     deps.Analyst,
		metrics:     deps.Metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// StartResult is the outcome of a successful interview start.
type StartResult struct {
	CandidateID string           `json:"candidate_id"`
	State       session.State    `json:"state"`
	Profile     *types.Profile   `json:"profile"`
	Questions   []types.Question `json:"questions"`
}

// Start runs the setup phase for a new candidate: parse the résumé,
// generate questions, synthesize their audio, and commit the full
// question set in one step. Any failure marks the session Failed and
// surfaces the cause; audio already stored for an uncommitted batch is
// discarded.
func (o *Orchestrator) Start(ctx context.Context, resumeDoc []byte, questionCount int) (*StartResult, error) {
	count, err := o.resolveQuestionCount(questionCount)
	if err != nil {
		return nil, err
	}

	candidateID := newCandidateID()
	if err := o.store.Create(session.New(candidateID)); err != nil {
		return nil, err
	}
	o.metrics.RecordSessionStarted()
	o.metrics.SetActiveSessions(o.store.Len())

	logger := o.logger.With(zap.String("candidate_id", candidateID))
	logger.Info("interview session created", zap.Int("questions_requested", count))

	profile, err := o.parser.Parse(ctx, resumeDoc)
	if err != nil {
		return nil, o.failSession(candidateID, "resume parsing failed", err)
	}
	if err := o.store.Update(candidateID, func(s *session.Session) error {
		s.Profile = profile
		s.State = session.StateResumeParsed
		s.Touch()
		return nil
	}); err != nil {
		return nil, err
	}
	logger.Info("resume parsed",
		zap.Int("skills", len(profile.Skills)),
		zap.Int("projects", len(profile.Projects)))

	questions, err := o.generator.Generate(ctx, profile, count)
	if err != nil {
		return nil, o.failSession(candidateID, "question generation failed", err)
	}
	o.metrics.RecordQuestionsGenerated(len(questions))

	refs, err := o.synthesizeAll(ctx, candidateID, questions)
	if err != nil {
		o.discardAudio(refs)
		return nil, o.failSession(candidateID, "question audio synthesis failed", err)
	}
	for i := range questions {
		questions[i].AudioReference = refs[i]
	}

	// The question set and its audio references commit together; a
	// session is never observable with questions but no audio.
	if err := o.store.Update(candidateID, func(s *session.Session) error {
		if s.State != session.StateResumeParsed {
			return faults.State("commit questions", string(s.State))
		}
		s.Questions = questions
		s.State = session.StateQuestionsGenerated
		s.Touch()
		return nil
	}); err != nil {
		o.discardAudio(refs)
		return nil, err
	}

	logger.Info("questions ready", zap.Int("count", len(questions)))
	return &StartResult{
		CandidateID: candidateID,
		State:       session.StateQuestionsGenerated,
		Profile:     profile,
		Questions:   questions,
	}, nil
}

// synthesizeAll renders audio for every question with bounded
// concurrency and stores each clip. The returned slice is index-aligned
// with questions; on error it still holds the refs that were stored so
// the caller can discard them.
func (o *Orchestrator) synthesizeAll(ctx context.Context, candidateID string, questions []types.Question) ([]string, error) {
	refs := make([]string, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.SynthesisConcurrency)
	for i, q := range questions {
		g.Go(func() error {
			start := time.Now()
			wav, err := o.synthesizer.Synthesize(gctx, q.Text)
			if err != nil {
				return fmt.Errorf("question %s: %w", q.ID, err)
			}
			o.metrics.RecordSynthesis(time.Since(start).Seconds())

			ref := blob.QuestionRef(candidateID, q.ID)
			if err := o.blobs.Put(gctx, ref, "audio/wav", wav); err != nil {
				return fmt.Errorf("question %s: %w", q.ID, err)
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return refs, err
	}
	return refs, nil
}

// discardAudio removes stored clips from an uncommitted batch.
// Best effort: a leftover object is unreachable anyway since the session
// never received its reference.
func (o *Orchestrator) discardAudio(refs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := o.blobs.Delete(ctx, ref); err != nil {
			o.logger.Warn("failed to discard uncommitted audio",
				zap.String("ref", ref), zap.Error(err))
		}
	}
}

// failSession marks the session Failed and returns the cause wrapped
// with the failing stage.
func (o *Orchestrator) failSession(candidateID, reason string, cause error) error {
	o.metrics.RecordSessionFailed()
	o.logger.Error("interview setup failed",
		zap.String("candidate_id", candidateID),
		zap.String("reason", reason),
		zap.Error(cause))

	if err := o.store.Update(candidateID, func(s *session.Session) error {
		s.Fail(fmt.Sprintf("%s: %v", reason, cause))
		return nil
	}); err != nil {
		o.logger.Warn("could not mark session failed",
			zap.String("candidate_id", candidateID), zap.Error(err))
	}
	return fmt.Errorf("%s: %w", reason, cause)
}

// resolveQuestionCount applies the default and the upper bound. Zero
// means "use the default"; anything negative is rejected.
func (o *Orchestrator) resolveQuestionCount(requested int) (int, error) {
	if requested < 0 {
		return 0, faults.Validation("n_questions", "question count must not be negative, got %d", requested)
	}
	if requested == 0 {
		return o.cfg.DefaultQuestions, nil
	}
	if requested > o.cfg.MaxQuestions {
		return o.cfg.MaxQuestions, nil
	}
	return requested, nil
}

func newCandidateID() string {
	u := uuid.New()
	return "cand-" + hex.EncodeToString(u[:4])
}
