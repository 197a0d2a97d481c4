// backend/internal/content/repository.go
package content

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"prep-system/internal/models"
)

// Repository serves the read-only catalogue out of the database.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Course{},
		&models.Topic{},
		&models.Question{},
		&models.Option{},
	)
}

// GetQuestions returns the topic's questions with options in display order.
// An empty level matches every level.
func (r *Repository) GetQuestions(ctx context.Context, topicID, level string) ([]models.Question, error) {
	var questions []models.Question

	q := r.db.WithContext(ctx).Where("topic_id = ?", topicID)
	if level != "" {
		q = q.Where("level = ?", level)
	}
	err := q.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Order("id asc").Find(&questions).Error
	if err != nil {
		log.Printf("Error getting questions for topic %s: %v", topicID, err)
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	if len(questions) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no questions for topic %s level %q", topicID, level)
	}

	log.Printf("Found %d questions for topic %s", len(questions), topicID)
	return questions, nil
}

func (r *Repository) GetRevisionTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.WithContext(ctx).Order("category asc, name asc").Find(&topics).Error; err != nil {
		log.Printf("Error getting revision topics: %v", err)
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return topics, nil
}

func (r *Repository) GetCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("title asc").Find(&courses).Error; err != nil {
		log.Printf("Error getting courses: %v", err)
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return courses, nil
}

func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
