package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"prep-system/pkg/database"
)

const testCatalogue = `{
  "courses": [
    {"id": "gds-mts", "title": "GDS to MTS", "total_lessons": 40, "completed_lessons": 10}
  ],
  "topics": [
    {"id": "post-office-guide", "course_id": "gds-mts", "name": "Post Office Guide", "category": "Paper I", "days_since_studied": 3},
    {"id": "arithmetic", "course_id": "gds-mts", "name": "Arithmetic", "category": "Paper II", "days_since_studied": 5}
  ],
  "questions": [
    {"topic_id": "post-office-guide", "level": "beginner", "text": "Maximum weight of a letter?", "options": ["500 g", "1 kg", "2 kg", "5 kg"], "correct_option": 2},
    {"topic_id": "post-office-guide", "level": "beginner", "text": "Speed Post first introduced in?", "options": ["1986", "1990"], "correct_option": 0},
    {"topic_id": "post-office-guide", "level": "advanced", "text": "Registration fee for a letter?", "options": ["Rs 17", "Rs 22", "Rs 25"], "correct_option": 0}
  ]
}`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestRepository_SeedAndFetch(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	empty, err := repo.IsEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, SeedFromBytes(db, []byte(testCatalogue)))

	empty, err = repo.IsEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, empty)

	questions, err := repo.GetQuestions(ctx, "post-office-guide", "beginner")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Maximum weight of a letter?", questions[0].Text)
	require.Len(t, questions[0].Options, 4)
	assert.Equal(t, "500 g", questions[0].Options[0].Text)
	assert.Equal(t, "5 kg", questions[0].Options[3].Text)
	assert.Equal(t, 2, questions[0].CorrectOption)

	all, err := repo.GetQuestions(ctx, "post-office-guide", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	topics, err := repo.GetRevisionTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "post-office-guide", topics[0].ID)
	assert.Equal(t, 5, topics[1].DaysSinceStudied)

	courses, err := repo.GetCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 40, courses[0].TotalLessons)
}

func TestRepository_NoQuestions(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedFromBytes(db, []byte(testCatalogue)))

	_, err := NewRepository(db).GetQuestions(context.Background(), "arithmetic", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Unavailable(t *testing.T) {
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewRepository(db).GetRevisionTopics(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSeedFromBytes_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad json", `{"topics": [`},
		{"duplicate topic", `{"topics": [{"id": "a"}, {"id": "a"}]}`},
		{"negative days", `{"topics": [{"id": "a", "days_since_studied": -2}]}`},
		{"unknown topic", `{"topics": [{"id": "a"}], "questions": [{"topic_id": "b", "options": ["x", "y"]}]}`},
		{"one option", `{"topics": [{"id": "a"}], "questions": [{"topic_id": "a", "options": ["x"]}]}`},
		{"bad answer key", `{"topics": [{"id": "a"}], "questions": [{"topic_id": "a", "options": ["x", "y"], "correct_option": 2}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			assert.Error(t, SeedFromBytes(db, []byte(tt.raw)))
		})
	}
}
