package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-screener/internal/faults"
)

// entry pairs a session with its own mutex. The entry mutex is the per-key
// exclusive section: holding it is what "one transition at a time per
// candidate" means.
type entry struct {
	mu sync.Mutex
	s  *Session
}

// Store is a keyed session registry. The store-level RWMutex guards only the
// map itself; all session state is guarded by the per-entry mutex, so work on
// one candidate never blocks another.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl    time.Duration
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates an empty store. Sessions idle longer than ttl are expired
// by the cleanup loop once StartCleanup is called; ttl <= 0 disables expiry.
func NewStore(logger *zap.Logger, ttl time.Duration) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Create registers a new session under its candidate id.
func (st *Store) Create(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.entries[s.CandidateID]; exists {
		return faults.Validation("candidate_id", "session %s already exists", s.CandidateID)
	}
	st.entries[s.CandidateID] = &entry{s: s}
	return nil
}

// Update runs fn on the session under its exclusive lock. fn sees a session
// no other goroutine is touching and may mutate it freely; the error it
// returns is passed through. Unknown ids return a not-found fault.
func (st *Store) Update(id string, fn func(*Session) error) error {
	e, err := st.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The entry may have been removed while we waited for its lock.
	st.mu.RLock()
	current, ok := st.entries[id]
	st.mu.RUnlock()
	if !ok || current != e {
		return faults.NotFound("session", id)
	}

	return fn(e.s)
}

// View runs fn on the session under the same per-key lock as Update. fn must
// treat the session as read-only; anything it needs after returning has to be
// copied out.
func (st *Store) View(id string, fn func(*Session)) error {
	return st.Update(id, func(s *Session) error {
		fn(s)
		return nil
	})
}

// Remove deletes the session. Returns false if the id is unknown.
func (st *Store) Remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.entries[id]; !ok {
		return false
	}
	delete(st.entries, id)
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}

func (st *Store) lookup(id string) (*entry, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	e, ok := st.entries[id]
	if !ok {
		return nil, faults.NotFound("session", id)
	}
	return e, nil
}

// StartCleanup launches the idle-expiry loop. Safe to call at most once.
func (st *Store) StartCleanup(interval time.Duration) {
	if st.ttl <= 0 {
		return
	}
	st.wg.Add(1)
	go func() {
		defer st.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		st.logger.Info("session cleanup started",
			zap.Duration("interval", interval),
			zap.Duration("ttl", st.ttl))

		for {
			select {
			case <-st.ctx.Done():
				return
			case <-ticker.C:
				st.expireIdle()
			}
		}
	}()
}

// Stop cancels the cleanup loop and waits for it to exit.
func (st *Store) Stop() {
	st.cancel()
	st.wg.Wait()
}

func (st *Store) expireIdle() {
	now := time.Now()
	var expired []string

	st.mu.RLock()
	for id, e := range st.entries {
		e.mu.Lock()
		idle := now.Sub(e.s.LastActivity)
		e.mu.Unlock()
		if idle > st.ttl {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	for _, id := range expired {
		if st.Remove(id) {
			st.logger.Info("expired idle session", zap.String("candidate_id", id))
		}
	}
}
