// backend/internal/content/service.go
package content

import (
	"context"

	"github.com/pkg/errors"

	"prep-system/internal/models"
)

var (
	ErrNotFound    = errors.New("content: not found")
	ErrUnavailable = errors.New("content: service unavailable")
)

// Service is the content collaborator the engines read from. Any backend
// (database, static file, remote API) can sit behind it.
type Service interface {
	GetQuestions(ctx context.Context, topicID, level string) ([]models.Question, error)
	GetRevisionTopics(ctx context.Context) ([]models.Topic, error)
	GetCourses(ctx context.Context) ([]models.Course, error)
}
