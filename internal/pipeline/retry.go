package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/faults"
)

// retryTransient runs fn with bounded exponential backoff. Only transient
// external failures are retried; every other error, and the last transient
// one, returns as-is. The calls this guards (transcribe, analyze) are
// idempotent, so a retry after an ambiguous failure is safe.
func (o *Orchestrator) retryTransient(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !faults.IsTransient(err) {
			return err
		}
		if attempt >= o.cfg.RetryAttempts {
			return err
		}

		backoff := o.cfg.RetryBaseDelay << (attempt - 1)
		if backoff > o.cfg.RetryMaxDelay {
			backoff = o.cfg.RetryMaxDelay
		}
		o.logger.Warn("transient failure, backing off",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s aborted during backoff: %w", operation, ctx.Err())
		case <-time.After(backoff):
		}
	}
}
