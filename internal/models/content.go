// backend/internal/models/content.go
package models

import (
	"time"
)

// Course is a study course shown on the dashboard library.
type Course struct {
	ID               string    `json:"id" gorm:"primaryKey;size:64"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
	Title            string    `json:"title" gorm:"not null"`
	TotalLessons     int       `json:"total_lessons" gorm:"not null"`
	CompletedLessons int       `json:"completed_lessons"`
}

// Topic is a studied topic on the revision list.
type Topic struct {
	ID               string    `json:"id" gorm:"primaryKey;size:64"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
	CourseID         string    `json:"course_id" gorm:"index"`
	Name             string    `json:"name" gorm:"not null"`
	Category         string    `json:"category"`
	DaysSinceStudied int       `json:"days_since_studied"`
}

type Question struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
	TopicID       string    `json:"topic_id" gorm:"index;not null"`
	Level         string    `json:"level" gorm:"index;size:32"`
	Text          string    `json:"text" gorm:"not null"`
	Options       []Option  `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CorrectOption int       `json:"correct_option"`
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"index"`
	Position   int    `json:"position" gorm:"not null"`
	Text       string `json:"text" gorm:"not null"`
}

// Grade classifies a single response against the question's answer key.
func (q Question) Grade(selected int, answered bool) Outcome {
	switch {
	case !answered:
		return OutcomeSkipped
	case selected == q.CorrectOption:
		return OutcomeCorrect
	default:
		return OutcomeWrong
	}
}
