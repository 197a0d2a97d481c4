// backend/internal/models/dto.go
package models

type QuestionDTO struct {
	ID            uint        `json:"id"`
	TopicID       string      `json:"topic_id"`
	Text          string      `json:"text"`
	Options       []OptionDTO `json:"options"`
	CorrectOption *int        `json:"correct_option,omitempty"` // Only once the attempt is over
}

type OptionDTO struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ToDTO strips the answer key unless reveal is set.
func (q Question) ToDTO(reveal bool) QuestionDTO {
	optionDTOs := make([]OptionDTO, len(q.Options))
	for i, opt := range q.Options {
		optionDTOs[i] = OptionDTO{
			Index: i,
			Text:  opt.Text,
		}
	}

	dto := QuestionDTO{
		ID:      q.ID,
		TopicID: q.TopicID,
		Text:    q.Text,
		Options: optionDTOs,
	}
	if reveal {
		correct := q.CorrectOption
		dto.CorrectOption = &correct
	}
	return dto
}
