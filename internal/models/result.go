// backend/internal/models/result.go
package models

import "fmt"

// Outcome is how a single question ended up at submission time.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeCorrect
	OutcomeWrong
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeWrong:
		return "wrong"
	default:
		return "skipped"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "correct":
		*o = OutcomeCorrect
	case "wrong":
		*o = OutcomeWrong
	case "skipped":
		*o = OutcomeSkipped
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// QuizResult is the terminal summary of an attempt. It is built once on
// submit and never changed afterwards.
type QuizResult struct {
	CorrectCount int       `json:"correct_count"`
	WrongCount   int       `json:"wrong_count"`
	SkippedCount int       `json:"skipped_count"`
	ScoreRaw     int       `json:"score_raw"`
	ScoreMax     int       `json:"score_max"`
	Percentage   int       `json:"percentage"`
	Passed       bool      `json:"passed"`
	Accuracy     int       `json:"accuracy"`
	Outcomes     []Outcome `json:"outcomes"`
}
