// backend/internal/quiz/engine.go
package quiz

import (
	"math"

	"github.com/pkg/errors"

	"prep-system/internal/models"
)

type State int

const (
	StateLoading State = iota
	StateInProgress
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	default:
		return "loading"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*s = StateLoading
	case "in_progress":
		*s = StateInProgress
	case "submitted":
		*s = StateSubmitted
	default:
		return errors.Errorf("quiz: unknown state %q", text)
	}
	return nil
}

const (
	DefaultDuration   = 600 // seconds
	PointsPerQuestion = 2
	PassPercentage    = 40
)

var (
	ErrNoQuestions      = errors.New("quiz: cannot start without questions")
	ErrInvalidQuestion  = errors.New("quiz: question needs two options and a valid answer key")
	ErrAlreadyStarted   = errors.New("quiz: attempt already started")
	ErrNotStarted       = errors.New("quiz: attempt not started")
	ErrOptionOutOfRange = errors.New("quiz: option index out of range")
	ErrIndexOutOfRange  = errors.New("quiz: question index out of range")
)

// Engine holds one attempt. It is not safe for concurrent use; Session adds
// the locking and the timer.
type Engine struct {
	state     State
	duration  int
	questions []models.Question
	current   int
	answers   map[int]int
	flagged   map[int]bool
	remaining int
	result    *models.QuizResult
}

// NewEngine returns an engine in the Loading state. duration <= 0 falls back
// to DefaultDuration.
func NewEngine(duration int) *Engine {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Engine{
		state:    StateLoading,
		duration: duration,
	}
}

func (e *Engine) Start(questions []models.Question) error {
	if e.state != StateLoading {
		return ErrAlreadyStarted
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range questions {
		if len(q.Options) < 2 || q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return errors.Wrapf(ErrInvalidQuestion, "question %d (id %d)", i, q.ID)
		}
	}

	e.questions = append([]models.Question(nil), questions...)
	e.current = 0
	e.answers = make(map[int]int)
	e.flagged = make(map[int]bool)
	e.remaining = e.duration
	e.state = StateInProgress
	return nil
}

func (e *Engine) State() State { return e.state }

func (e *Engine) CurrentIndex() int { return e.current }

func (e *Engine) RemainingSeconds() int { return e.remaining }

func (e *Engine) Questions() []models.Question {
	return append([]models.Question(nil), e.questions...)
}

// Answers returns a copy of the recorded answers keyed by question index.
func (e *Engine) Answers() map[int]int {
	out := make(map[int]int, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

func (e *Engine) Flagged(index int) bool { return e.flagged[index] }

func (e *Engine) SelectOption(option int) error {
	switch e.state {
	case StateLoading:
		return ErrNotStarted
	case StateSubmitted:
		return nil
	}
	if option < 0 || option >= len(e.questions[e.current].Options) {
		return errors.Wrapf(ErrOptionOutOfRange, "option %d for question %d", option, e.current)
	}
	e.answers[e.current] = option
	return nil
}

func (e *Engine) ClearResponse() {
	if e.state != StateInProgress {
		return
	}
	delete(e.answers, e.current)
}

func (e *Engine) ToggleReview() {
	if e.state != StateInProgress {
		return
	}
	if e.flagged[e.current] {
		delete(e.flagged, e.current)
		return
	}
	e.flagged[e.current] = true
}

func (e *Engine) Next() {
	if e.state != StateInProgress {
		return
	}
	if e.current < len(e.questions)-1 {
		e.current++
	}
}

func (e *Engine) Prev() {
	if e.state != StateInProgress {
		return
	}
	if e.current > 0 {
		e.current--
	}
}

func (e *Engine) JumpTo(index int) error {
	switch e.state {
	case StateLoading:
		return ErrNotStarted
	case StateSubmitted:
		return nil
	}
	if index < 0 || index >= len(e.questions) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d of %d", index, len(e.questions))
	}
	e.current = index
	return nil
}

// Tick spends one second of the budget. It reports true when this tick ran
// the clock out and submitted the attempt.
func (e *Engine) Tick() bool {
	if e.state != StateInProgress {
		return false
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining == 0 {
		e.Submit()
		return true
	}
	return false
}

// Submit grades the attempt. Later calls return the first result unchanged.
func (e *Engine) Submit() models.QuizResult {
	if e.result != nil {
		return *e.result
	}
	if e.state != StateInProgress {
		return models.QuizResult{}
	}
	res := Grade(e.questions, e.answers)
	e.result = &res
	e.state = StateSubmitted
	return res
}

// Result returns the submitted result, if any.
func (e *Engine) Result() (models.QuizResult, bool) {
	if e.result == nil {
		return models.QuizResult{}, false
	}
	return *e.result, true
}

// Grade reduces answers over questions into a score summary. Skipped
// questions do not count against accuracy.
func Grade(questions []models.Question, answers map[int]int) models.QuizResult {
	res := models.QuizResult{
		ScoreMax: len(questions) * PointsPerQuestion,
		Outcomes: make([]models.Outcome, len(questions)),
	}
	for i, q := range questions {
		selected, answered := answers[i]
		outcome := q.Grade(selected, answered)
		res.Outcomes[i] = outcome
		switch outcome {
		case models.OutcomeCorrect:
			res.CorrectCount++
		case models.OutcomeWrong:
			res.WrongCount++
		default:
			res.SkippedCount++
		}
	}

	res.ScoreRaw = res.CorrectCount * PointsPerQuestion
	if res.ScoreMax > 0 {
		res.Percentage = roundPercent(res.ScoreRaw, res.ScoreMax)
	}
	res.Passed = res.Percentage >= PassPercentage
	if attempted := res.CorrectCount + res.WrongCount; attempted > 0 {
		res.Accuracy = roundPercent(res.CorrectCount, attempted)
	}
	return res
}

func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
