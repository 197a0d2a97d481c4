// backend/internal/result/presenter.go
package result

import (
	"fmt"

	"prep-system/internal/models"
)

const (
	BadgePassed = "PASSED"
	BadgeFailed = "FAILED"
)

// Mark tags an option on the review sheet.
type Mark string

const (
	MarkNone     Mark = ""
	MarkCorrect  Mark = "correct"
	MarkSelected Mark = "selected" // picked, but wrong
)

type OptionView struct {
	Text   string `json:"text"`
	Mark   Mark   `json:"mark,omitempty"`
	Chosen bool   `json:"chosen"`
}

type QuestionReview struct {
	Index    int            `json:"index"`
	Text     string         `json:"text"`
	Outcome  models.Outcome `json:"outcome"`
	Selected *int           `json:"selected,omitempty"`
	Options  []OptionView   `json:"options"`
}

// View is everything the result page renders.
type View struct {
	Badge    string           `json:"badge"`
	Passed   bool             `json:"passed"`
	Gauge    int              `json:"gauge"`
	Accuracy int              `json:"accuracy"`
	Score    string           `json:"score"`
	Correct  int              `json:"correct"`
	Wrong    int              `json:"wrong"`
	Skipped  int              `json:"skipped"`
	Review   []QuestionReview `json:"review"`
}

// Present builds the result view. It only reads its inputs.
func Present(res models.QuizResult, questions []models.Question, answers map[int]int) View {
	badge := BadgeFailed
	if res.Passed {
		badge = BadgePassed
	}

	gauge := res.Percentage
	if gauge < 0 {
		gauge = 0
	} else if gauge > 100 {
		gauge = 100
	}

	v := View{
		Badge:    badge,
		Passed:   res.Passed,
		Gauge:    gauge,
		Accuracy: res.Accuracy,
		Score:    fmt.Sprintf("%d / %d", res.ScoreRaw, res.ScoreMax),
		Correct:  res.CorrectCount,
		Wrong:    res.WrongCount,
		Skipped:  res.SkippedCount,
		Review:   make([]QuestionReview, len(questions)),
	}
	for i, q := range questions {
		v.Review[i] = reviewQuestion(i, q, answers)
	}
	return v
}

func reviewQuestion(index int, q models.Question, answers map[int]int) QuestionReview {
	selected, answered := answers[index]
	qr := QuestionReview{
		Index:   index,
		Text:    q.Text,
		Outcome: q.Grade(selected, answered),
		Options: make([]OptionView, len(q.Options)),
	}
	if answered {
		sel := selected
		qr.Selected = &sel
	}

	for i, opt := range q.Options {
		ov := OptionView{Text: opt.Text, Chosen: answered && i == selected}
		switch {
		case i == q.CorrectOption:
			ov.Mark = MarkCorrect
		case ov.Chosen:
			ov.Mark = MarkSelected
		}
		qr.Options[i] = ov
	}
	return qr
}

// WrongAnswers narrows a view to the questions answered incorrectly.
func WrongAnswers(v View) []QuestionReview {
	out := make([]QuestionReview, 0, v.Wrong)
	for _, qr := range v.Review {
		if qr.Outcome == models.OutcomeWrong {
			out = append(out, qr)
		}
	}
	return out
}
