// backend/internal/quiz/snapshot.go
package quiz

import "prep-system/internal/models"

// PaletteStatus is the colour of a question's button in the navigation grid.
type PaletteStatus string

const (
	PaletteUnanswered      PaletteStatus = "unanswered"
	PaletteAnswered        PaletteStatus = "answered"
	PaletteFlagged         PaletteStatus = "flagged"
	PaletteAnsweredFlagged PaletteStatus = "answered_flagged"
)

// Snapshot is a read-only view of an engine for the presentation layer.
type Snapshot struct {
	AttemptID        string              `json:"attempt_id,omitempty"`
	State            State               `json:"state"`
	CurrentIndex     int                 `json:"current_index"`
	Total            int                 `json:"total"`
	RemainingSeconds int                 `json:"remaining_seconds"`
	AnsweredCount    int                 `json:"answered_count"`
	FlaggedCount     int                 `json:"flagged_count"`
	Selected         *int                `json:"selected,omitempty"`
	Flagged          bool                `json:"flagged"`
	Question         *models.QuestionDTO `json:"question,omitempty"`
	Palette          []PaletteStatus     `json:"palette"`
}

func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:            e.state,
		CurrentIndex:     e.current,
		Total:            len(e.questions),
		RemainingSeconds: e.remaining,
		AnsweredCount:    len(e.answers),
		FlaggedCount:     len(e.flagged),
		Palette:          make([]PaletteStatus, len(e.questions)),
	}
	if e.state == StateLoading {
		return snap
	}

	for i := range e.questions {
		_, answered := e.answers[i]
		switch {
		case answered && e.flagged[i]:
			snap.Palette[i] = PaletteAnsweredFlagged
		case answered:
			snap.Palette[i] = PaletteAnswered
		case e.flagged[i]:
			snap.Palette[i] = PaletteFlagged
		default:
			snap.Palette[i] = PaletteUnanswered
		}
	}

	if sel, ok := e.answers[e.current]; ok {
		snap.Selected = &sel
	}
	snap.Flagged = e.flagged[e.current]
	dto := e.questions[e.current].ToDTO(e.state == StateSubmitted)
	snap.Question = &dto
	return snap
}
