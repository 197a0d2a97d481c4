// backend/internal/revision/service.go
package revision

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"prep-system/internal/models"
)

type TopicSource interface {
	GetRevisionTopics(ctx context.Context) ([]models.Topic, error)
}

// Item pairs a topic with its computed status for list views.
type Item struct {
	Topic  models.Topic `json:"topic"`
	Status Status       `json:"status"`
}

type Service struct {
	topics    TopicSource
	scheduler *Scheduler
}

func NewService(topics TopicSource, scheduler *Scheduler) *Service {
	return &Service{
		topics:    topics,
		scheduler: scheduler,
	}
}

// List fetches the studied topics and classifies them in source order.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	topics, err := s.topics.GetRevisionTopics(ctx)
	if err != nil {
		log.Printf("Error fetching revision topics: %v", err)
		return nil, errors.Wrap(err, "fetch revision topics")
	}

	statuses, err := s.scheduler.ClassifyAll(topics)
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(topics))
	for i := range topics {
		items[i] = Item{Topic: topics[i], Status: statuses[i]}
	}
	return items, nil
}

// Due returns only the items due today.
func (s *Service) Due(ctx context.Context) ([]Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	due := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Status.Due {
			due = append(due, it)
		}
	}
	return due, nil
}
