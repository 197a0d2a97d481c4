// backend/internal/content/cached.go
package content

import (
	"context"
	"fmt"
	"log"
	"time"

	"prep-system/internal/models"
)

// Cache is the key/value store CachedService reads through. pkg/cache
// provides the redis implementation.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Invalidator drops cached catalogue entries after the catalogue changes.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string) error
	InvalidateMatching(ctx context.Context, pattern string) error
}

const (
	questionsTTL = 24 * time.Hour
	topicsTTL    = 10 * time.Minute
	coursesTTL   = 10 * time.Minute

	topicsKey        = "revision:topics"
	coursesKey       = "courses"
	questionsPattern = "questions:*"
)

func questionsKey(topicID, level string) string {
	return fmt.Sprintf("questions:%s:%s", topicID, level)
}

// DropCached removes every cached catalogue read, question sets included.
func DropCached(ctx context.Context, inv Invalidator) error {
	if err := inv.Invalidate(ctx, topicsKey, coursesKey); err != nil {
		return err
	}
	return inv.InvalidateMatching(ctx, questionsPattern)
}

// CachedService fronts another Service with a cache. Cache failures are
// logged and fall through to the backing service.
type CachedService struct {
	next  Service
	cache Cache
}

func NewCachedService(next Service, cache Cache) *CachedService {
	return &CachedService{next: next, cache: cache}
}

func (s *CachedService) GetQuestions(ctx context.Context, topicID, level string) ([]models.Question, error) {
	key := questionsKey(topicID, level)

	var questions []models.Question
	if err := s.cache.GetJSON(ctx, key, &questions); err == nil && len(questions) > 0 {
		return questions, nil
	}

	questions, err := s.next.GetQuestions(ctx, topicID, level)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, questions, questionsTTL)
	return questions, nil
}

func (s *CachedService) GetRevisionTopics(ctx context.Context) ([]models.Topic, error) {
	key := topicsKey

	var topics []models.Topic
	if err := s.cache.GetJSON(ctx, key, &topics); err == nil {
		return topics, nil
	}

	topics, err := s.next.GetRevisionTopics(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, topics, topicsTTL)
	return topics, nil
}

func (s *CachedService) GetCourses(ctx context.Context) ([]models.Course, error) {
	key := coursesKey

	var courses []models.Course
	if err := s.cache.GetJSON(ctx, key, &courses); err == nil {
		return courses, nil
	}

	courses, err := s.next.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, courses, coursesTTL)
	return courses, nil
}

func (s *CachedService) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}
}
