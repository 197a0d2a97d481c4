// backend/internal/quiz/service.go
package quiz

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"prep-system/internal/models"
)

var (
	ErrAttemptNotFound = errors.New("quiz: attempt not found")
	ErrNotSubmitted    = errors.New("quiz: attempt not submitted yet")
)

type QuestionSource interface {
	GetQuestions(ctx context.Context, topicID, level string) ([]models.Question, error)
}

// Notifier pushes attempt events to whoever watches the attempt.
type Notifier interface {
	BroadcastMessage(room string, messageType string, data interface{})
}

type Config struct {
	Duration     int           // seconds per attempt
	TickInterval time.Duration // one engine tick
	ResultTTL    time.Duration // how long a graded attempt stays readable
}

const DefaultResultTTL = 30 * time.Minute

func DefaultConfig() Config {
	return Config{
		Duration:     DefaultDuration,
		TickInterval: time.Second,
		ResultTTL:    DefaultResultTTL,
	}
}

// Service keeps live attempts in memory. Graded attempts are evicted
// ResultTTL after submission; nothing outlives the process.
type Service struct {
	questions QuestionSource
	notifier  Notifier
	config    Config

	ctx     context.Context
	cancel  context.CancelFunc
	sweeper *Timer

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(questions QuestionSource, notifier Notifier, config Config) *Service {
	if config.Duration <= 0 {
		config.Duration = DefaultDuration
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.ResultTTL <= 0 {
		config.ResultTTL = DefaultResultTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		questions: questions,
		notifier:  notifier,
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
		sessions:  make(map[string]*Session),
	}
	s.sweeper = StartTimer(ctx, sweepInterval(config.ResultTTL), func() { s.sweep(time.Now()) })
	return s
}

func sweepInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 4; interval < time.Minute {
		return interval
	}
	return time.Minute
}

// sweep drops attempts graded more than ResultTTL before now.
func (s *Service) sweep(now time.Time) int {
	s.mu.RLock()
	var expired []string
	for id, sess := range s.sessions {
		if at, ok := sess.SubmittedAt(); ok && now.Sub(at) >= s.config.ResultTTL {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}
	s.mu.Lock()
	for _, id := range expired {
		if sess, ok := s.sessions[id]; ok {
			delete(s.sessions, id)
			sess.Close()
		}
	}
	s.mu.Unlock()
	log.Printf("Evicted %d graded attempts", len(expired))
	return len(expired)
}

// Live returns how many attempts are held in memory.
func (s *Service) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartAttempt fetches the question set and starts the countdown.
func (s *Service) StartAttempt(ctx context.Context, studentID, topicID, level string) (Snapshot, error) {
	log.Printf("StartAttempt called for topic %s level %q by %s", topicID, level, studentID)

	questions, err := s.questions.GetQuestions(ctx, topicID, level)
	if err != nil {
		log.Printf("Error getting questions: %v", err)
		return Snapshot{}, errors.Wrapf(err, "questions for topic %s", topicID)
	}

	engine := NewEngine(s.config.Duration)
	if err := engine.Start(questions); err != nil {
		return Snapshot{}, err
	}

	id := uuid.New().String()
	sess := newSession(id, studentID, engine, Hooks{
		OnTick:   s.broadcastTick,
		OnSubmit: s.broadcastSubmit,
	})
	sess.TopicID = topicID
	sess.Level = level

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	sess.run(s.ctx, s.config.TickInterval)
	log.Printf("Attempt %s started with %d questions", id, len(questions))
	return sess.Snapshot(), nil
}

// Session looks up an attempt owned by studentID.
func (s *Service) Session(attemptID, studentID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[attemptID]
	s.mu.RUnlock()
	if !ok || sess.StudentID != studentID {
		return nil, ErrAttemptNotFound
	}
	return sess, nil
}

// Owns reports whether the attempt exists and belongs to studentID.
func (s *Service) Owns(attemptID, studentID string) bool {
	_, err := s.Session(attemptID, studentID)
	return err == nil
}

func (s *Service) Get(attemptID, studentID string) (Snapshot, error) {
	sess, err := s.Session(attemptID, studentID)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *Service) do(attemptID, studentID string, fn func(e *Engine) error) (Snapshot, error) {
	sess, err := s.Session(attemptID, studentID)
	if err != nil {
		return Snapshot{}, err
	}
	return sess.Do(fn)
}

func (s *Service) SelectOption(attemptID, studentID string, option int) (Snapshot, error) {
	return s.do(attemptID, studentID, func(e *Engine) error { return e.SelectOption(option) })
}

func (s *Service) ClearResponse(attemptID, studentID string) (Snapshot, error) {
	return s.do(attemptID, studentID, func(e *Engine) error { e.ClearResponse(); return nil })
}

func (s *Service) ToggleReview(attemptID, studentID string) (Snapshot, error) {
	return s.do(attemptID, studentID, func(e *Engine) error { e.ToggleReview(); return nil })
}

func (s *Service) Next(attemptID, studentID string) (Snapshot, error) {
	return s.do(attemptID, studentID, func(e *Engine) error { e.Next(); return nil })
}

func (s *Service) Prev(attemptID, studentID string) (Snapshot, error) {
	return s.do(attemptID, studentID, func(e *Engine) error { e.Prev(); return nil })
}

func (s *Service) JumpTo(attemptID, studentID string, index int) (Snapshot, error) {
	return s.do(attemptID, studentID, func(e *Engine) error { return e.JumpTo(index) })
}

func (s *Service) Submit(attemptID, studentID string) (models.QuizResult, error) {
	sess, err := s.Session(attemptID, studentID)
	if err != nil {
		return models.QuizResult{}, err
	}
	return sess.Submit(), nil
}

// Review returns the graded attempt for the result page.
func (s *Service) Review(attemptID, studentID string) (models.QuizResult, []models.Question, map[int]int, error) {
	sess, err := s.Session(attemptID, studentID)
	if err != nil {
		return models.QuizResult{}, nil, nil, err
	}
	res, questions, answers, ok := sess.Review()
	if !ok {
		return models.QuizResult{}, nil, nil, ErrNotSubmitted
	}
	return res, questions, answers, nil
}

// Exit abandons an attempt: the countdown is cancelled and the attempt is
// forgotten without grading.
func (s *Service) Exit(attemptID, studentID string) error {
	sess, err := s.Session(attemptID, studentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, attemptID)
	s.mu.Unlock()

	sess.Close()
	log.Printf("Attempt %s exited by %s", attemptID, studentID)
	return nil
}

// Close cancels every countdown and waits for the tick goroutines to exit.
func (s *Service) Close() {
	s.cancel()
	<-s.sweeper.Done()

	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
		sess.Wait()
	}
	log.Printf("Quiz service closed %d attempts", len(sessions))
}

func (s *Service) broadcastTick(attemptID string, remaining int) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastMessage(attemptID, "tick", map[string]interface{}{
		"remaining_seconds": remaining,
	})
}

func (s *Service) broadcastSubmit(attemptID string, result models.QuizResult) {
	if s.notifier == nil {
		return
	}
	s.notifier.BroadcastMessage(attemptID, "submitted", result)
}
