// backend/internal/content/seed.go
package content

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"prep-system/internal/models"
)

type seedQuestion struct {
	TopicID       string   `json:"topic_id"`
	Level         string   `json:"level"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

type seedFile struct {
	Courses   []models.Course `json:"courses"`
	Topics    []models.Topic  `json:"topics"`
	Questions []seedQuestion  `json:"questions"`
}

func SeedFromJSON(db *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}
	return SeedFromBytes(db, raw)
}

// SeedFromBytes loads a catalogue in one transaction. Questions must point
// at a known topic and carry a valid answer key.
func SeedFromBytes(db *gorm.DB, raw []byte) error {
	var in seedFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return errors.Wrap(err, "json parse")
	}

	topics := make(map[string]bool, len(in.Topics))
	for _, t := range in.Topics {
		if topics[t.ID] {
			return errors.Errorf("duplicate topic id %q", t.ID)
		}
		if t.DaysSinceStudied < 0 {
			return errors.Errorf("topic %q: negative days_since_studied", t.ID)
		}
		topics[t.ID] = true
	}
	for i, q := range in.Questions {
		if !topics[q.TopicID] {
			return errors.Errorf("question %d: unknown topic %q", i, q.TopicID)
		}
		if len(q.Options) < 2 || q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return errors.Errorf("question %d: needs 2+ options and a valid correct_option", i)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range in.Courses {
			if err := tx.Create(&in.Courses[i]).Error; err != nil {
				return errors.Wrapf(err, "create course %s", in.Courses[i].ID)
			}
		}
		for i := range in.Topics {
			if err := tx.Create(&in.Topics[i]).Error; err != nil {
				return errors.Wrapf(err, "create topic %s", in.Topics[i].ID)
			}
		}
		for i, sq := range in.Questions {
			q := models.Question{
				TopicID:       sq.TopicID,
				Level:         sq.Level,
				Text:          sq.Text,
				CorrectOption: sq.CorrectOption,
			}
			for pos, text := range sq.Options {
				q.Options = append(q.Options, models.Option{Position: pos, Text: text})
			}
			if err := tx.Create(&q).Error; err != nil {
				return errors.Wrapf(err, "create question %d", i)
			}
		}
		return nil
	})
}
