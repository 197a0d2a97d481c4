// backend/internal/revision/scheduler.go
package revision

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"prep-system/internal/models"
)

// Ladder is the spaced repetition interval table, in days since last studied.
var Ladder = []int{1, 3, 7, 14, 30}

const (
	LabelToday = "Today"
	DateLayout = "Jan 2"
)

var ErrNegativeDays = errors.New("revision: days since studied must not be negative")

// Status is the derived revision state of one topic.
type Status struct {
	TopicID       string    `json:"topic_id"`
	Due           bool      `json:"due"`
	Label         string    `json:"label"`
	DaysUntilNext int       `json:"days_until_next"`
	NextDue       time.Time `json:"next_due"`
}

// IsDue reports whether a topic studied days ago should be revised today.
// Anything past the last rung stays due until it is studied again.
func IsDue(days int) bool {
	last := Ladder[len(Ladder)-1]
	if days > last {
		return true
	}
	for _, step := range Ladder {
		if days == step {
			return true
		}
	}
	return false
}

// DaysUntilNext returns how many days remain until the next rung. It is 0
// when the topic is due.
func DaysUntilNext(days int) int {
	if IsDue(days) {
		return 0
	}
	next := Ladder[len(Ladder)-1]
	for _, step := range Ladder {
		if step > days {
			next = step
			break
		}
	}
	return next - days
}

type cacheKey struct {
	topicID string
	days    int
}

// Scheduler classifies topics against the ladder. Results are memoized per
// (topic, days) for the current calendar day.
type Scheduler struct {
	now func() time.Time

	mu    sync.Mutex
	day   string
	cache map[cacheKey]Status
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		now:   now,
		cache: make(map[cacheKey]Status),
	}
}

func (s *Scheduler) Classify(topic models.Topic) (Status, error) {
	if topic.DaysSinceStudied < 0 {
		return Status{}, errors.Wrapf(ErrNegativeDays, "topic %s: %d", topic.ID, topic.DaysSinceStudied)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	key := cacheKey{topicID: topic.ID, days: topic.DaysSinceStudied}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dayKey := today.Format("2006-01-02"); dayKey != s.day {
		s.day = dayKey
		s.cache = make(map[cacheKey]Status)
	}
	if st, ok := s.cache[key]; ok {
		return st, nil
	}

	st := Status{
		TopicID: topic.ID,
		Due:     IsDue(topic.DaysSinceStudied),
		NextDue: today,
		Label:   LabelToday,
	}
	if !st.Due {
		st.DaysUntilNext = DaysUntilNext(topic.DaysSinceStudied)
		st.NextDue = today.AddDate(0, 0, st.DaysUntilNext)
		st.Label = st.NextDue.Format(DateLayout)
	}
	s.cache[key] = st
	return st, nil
}

// ClassifyAll keeps the input order. It stops at the first invalid topic.
func (s *Scheduler) ClassifyAll(topics []models.Topic) ([]Status, error) {
	out := make([]Status, 0, len(topics))
	for _, t := range topics {
		st, err := s.Classify(t)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
