// backend/internal/quiz/session.go
package quiz

import (
	"context"
	"log"
	"sync"
	"time"

	"prep-system/internal/models"
)

// Hooks are called outside the session lock, one at a time and in the order
// of the state changes they report.
type Hooks struct {
	OnTick   func(attemptID string, remaining int)
	OnSubmit func(attemptID string, result models.QuizResult)
}

// Session is a live attempt: the engine, its countdown and a lock. The
// countdown is stopped on every way out (submit, timeout, exit, shutdown).
type Session struct {
	ID        string
	StudentID string
	TopicID   string
	Level     string
	StartedAt time.Time

	mu          sync.Mutex
	emit        sync.Mutex // taken while mu is held, released after the hooks run
	engine      *Engine
	timer       *Timer
	hooks       Hooks
	closed      bool
	submittedAt time.Time
}

func newSession(id, studentID string, engine *Engine, hooks Hooks) *Session {
	return &Session{
		ID:        id,
		StudentID: studentID,
		StartedAt: time.Now(),
		engine:    engine,
		hooks:     hooks,
	}
}

// run starts the countdown. The engine must already be in progress.
func (s *Session) run(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = StartTimer(ctx, interval, s.tick)
}

func (s *Session) tick() {
	s.mu.Lock()
	if s.closed || s.engine.State() != StateInProgress {
		s.mu.Unlock()
		return
	}
	submitted := s.engine.Tick()
	remaining := s.engine.RemainingSeconds()
	var res models.QuizResult
	if submitted {
		res, _ = s.engine.Result()
		s.submittedAt = time.Now()
		s.stopTimerLocked()
	}
	s.emit.Lock()
	s.mu.Unlock()
	defer s.emit.Unlock()

	if s.hooks.OnTick != nil {
		s.hooks.OnTick(s.ID, remaining)
	}
	if submitted {
		log.Printf("Attempt %s ran out of time, auto-submitted", s.ID)
		if s.hooks.OnSubmit != nil {
			s.hooks.OnSubmit(s.ID, res)
		}
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Do runs fn against the engine under the session lock and returns the
// resulting snapshot.
func (s *Session) Do(fn func(e *Engine) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.engine); err != nil {
		return s.snapshotLocked(), err
	}
	return s.snapshotLocked(), nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := s.engine.Snapshot()
	snap.AttemptID = s.ID
	return snap
}

// Submit finishes the attempt. OnSubmit fires only for the call that
// actually moved the engine to Submitted.
func (s *Session) Submit() models.QuizResult {
	s.mu.Lock()
	first := s.engine.State() == StateInProgress
	res := s.engine.Submit()
	if first {
		s.submittedAt = time.Now()
	}
	s.stopTimerLocked()
	s.emit.Lock()
	s.mu.Unlock()
	defer s.emit.Unlock()

	if first {
		log.Printf("Attempt %s submitted: %d/%d", s.ID, res.ScoreRaw, res.ScoreMax)
		if s.hooks.OnSubmit != nil {
			s.hooks.OnSubmit(s.ID, res)
		}
	}
	return res
}

// SubmittedAt reports when the attempt was graded.
func (s *Session) SubmittedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submittedAt, !s.submittedAt.IsZero()
}

// Review returns what a result view needs once the attempt is over.
func (s *Session) Review() (models.QuizResult, []models.Question, map[int]int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.engine.Result()
	if !ok {
		return models.QuizResult{}, nil, nil, false
	}
	return res, s.engine.Questions(), s.engine.Answers(), true
}

// Close cancels the countdown without submitting. Ticks already in flight
// become no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
}

// Wait blocks until the countdown goroutine has exited.
func (s *Session) Wait() {
	s.mu.Lock()
	t := s.timer
	s.mu.Unlock()
	if t != nil {
		<-t.Done()
	}
}
