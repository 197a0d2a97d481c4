// backend/internal/dashboard/service.go
package dashboard

import (
	"context"
	"math"
	"sort"

	"github.com/pkg/errors"

	"prep-system/internal/models"
	"prep-system/internal/revision"
)

type CourseSource interface {
	GetCourses(ctx context.Context) ([]models.Course, error)
}

type CourseProgress struct {
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

// Summary backs the student dashboard: the smart revision widget and the
// course library.
type Summary struct {
	DueToday int              `json:"due_today"`
	Due      []revision.Item  `json:"due"`
	Upcoming []revision.Item  `json:"upcoming"`
	Courses  []CourseProgress `json:"courses"`
}

type Service struct {
	revision *revision.Service
	courses  CourseSource
}

func NewService(rev *revision.Service, courses CourseSource) *Service {
	return &Service{revision: rev, courses: courses}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	items, err := s.revision.List(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Due:      []revision.Item{},
		Upcoming: []revision.Item{},
	}
	for _, it := range items {
		if it.Status.Due {
			sum.Due = append(sum.Due, it)
		} else {
			sum.Upcoming = append(sum.Upcoming, it)
		}
	}
	sum.DueToday = len(sum.Due)
	sort.SliceStable(sum.Upcoming, func(i, j int) bool {
		return sum.Upcoming[i].Status.DaysUntilNext < sum.Upcoming[j].Status.DaysUntilNext
	})

	courses, err := s.courses.GetCourses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch courses")
	}
	sum.Courses = make([]CourseProgress, 0, len(courses))
	for _, c := range courses {
		sum.Courses = append(sum.Courses, Progress(c))
	}
	return sum, nil
}

// Progress clamps completed lessons into [0, total].
func Progress(c models.Course) CourseProgress {
	completed := c.CompletedLessons
	if completed < 0 {
		completed = 0
	}
	if completed > c.TotalLessons {
		completed = c.TotalLessons
	}
	p := CourseProgress{
		CourseID:  c.ID,
		Title:     c.Title,
		Completed: completed,
		Total:     c.TotalLessons,
	}
	if c.TotalLessons > 0 {
		p.Percent = int(math.Round(float64(completed) / float64(c.TotalLessons) * 100))
	}
	return p
}
