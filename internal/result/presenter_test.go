package result_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prep-system/internal/models"
	"prep-system/internal/quiz"
	"prep-system/internal/result"
)

func question(correct int, options ...string) models.Question {
	q := models.Question{Text: "question", CorrectOption: correct}
	for i, text := range options {
		q.Options = append(q.Options, models.Option{Position: i, Text: text})
	}
	return q
}

func sample() ([]models.Question, map[int]int) {
	questions := []models.Question{
		question(2, "Rs 5", "Rs 10", "Rs 15", "Rs 20"),
		question(0, "Yes", "No"),
		question(1, "Speed Post", "Registered", "Ordinary"),
	}
	return questions, map[int]int{0: 2, 1: 1}
}

func TestPresent_Summary(t *testing.T) {
	questions, answers := sample()
	v := result.Present(quiz.Grade(questions, answers), questions, answers)

	assert.Equal(t, result.BadgeFailed, v.Badge)
	assert.False(t, v.Passed)
	assert.Equal(t, 33, v.Gauge)
	assert.Equal(t, 50, v.Accuracy)
	assert.Equal(t, "2 / 6", v.Score)
	assert.Equal(t, 1, v.Correct)
	assert.Equal(t, 1, v.Wrong)
	assert.Equal(t, 1, v.Skipped)
}

func TestPresent_Marks(t *testing.T) {
	questions, answers := sample()
	v := result.Present(quiz.Grade(questions, answers), questions, answers)
	require.Len(t, v.Review, 3)

	first := v.Review[0]
	require.NotNil(t, first.Selected)
	assert.Equal(t, 2, *first.Selected)
	assert.Equal(t, result.MarkCorrect, first.Options[2].Mark)
	assert.True(t, first.Options[2].Chosen)
	assert.Equal(t, result.MarkNone, first.Options[0].Mark)

	second := v.Review[1]
	assert.Equal(t, result.MarkCorrect, second.Options[0].Mark)
	assert.Equal(t, result.MarkSelected, second.Options[1].Mark)
	assert.True(t, second.Options[1].Chosen)

	third := v.Review[2]
	assert.Nil(t, third.Selected)
	assert.Equal(t, result.MarkCorrect, third.Options[1].Mark)
	for _, opt := range third.Options {
		assert.False(t, opt.Chosen)
		assert.NotEqual(t, result.MarkSelected, opt.Mark)
	}
}

func TestPresent_MatchesSubmitOutcomes(t *testing.T) {
	questions, _ := sample()
	for _, answers := range []map[int]int{
		{},
		{0: 2, 1: 0, 2: 1},
		{0: 0, 1: 1, 2: 2},
		{2: 1},
	} {
		res := quiz.Grade(questions, answers)
		v := result.Present(res, questions, answers)
		for i, qr := range v.Review {
			assert.Equal(t, res.Outcomes[i], qr.Outcome, "question %d answers %v", i, answers)
		}
	}
}

func TestPresent_PassedBadge(t *testing.T) {
	questions, _ := sample()
	answers := map[int]int{0: 2, 1: 0}
	v := result.Present(quiz.Grade(questions, answers), questions, answers)

	assert.Equal(t, result.BadgePassed, v.Badge)
	assert.Equal(t, 67, v.Gauge)
	assert.Equal(t, 100, v.Accuracy)
}

func TestPresent_GaugeClamped(t *testing.T) {
	v := result.Present(models.QuizResult{Percentage: 130}, nil, nil)
	assert.Equal(t, 100, v.Gauge)
	v = result.Present(models.QuizResult{Percentage: -5}, nil, nil)
	assert.Equal(t, 0, v.Gauge)
	assert.Empty(t, v.Review)
}

func TestWrongAnswers(t *testing.T) {
	questions, answers := sample()
	wrong := result.WrongAnswers(result.Present(quiz.Grade(questions, answers), questions, answers))

	require.Len(t, wrong, 1)
	assert.Equal(t, 1, wrong[0].Index)
	assert.Equal(t, models.OutcomeWrong, wrong[0].Outcome)
}
