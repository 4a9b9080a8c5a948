package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mkrastev/veridict/internal/models"
)

// LoadPassages decodes a JSON array of passage records. Every record must
// carry the same number of questions and answers; a mismatch is a data
// error, not something to paper over.
func LoadPassages(source io.Reader) ([]models.Passage, error) {
	var passages []models.Passage
	if err := json.NewDecoder(source).Decode(&passages); err != nil {
		return nil, fmt.Errorf("failed to decode passages: %w", err)
	}

	for i, passage := range passages {
		if len(passage.Questions) != len(passage.Answers) {
			return nil, fmt.Errorf(
				"passage %d: %d questions but %d answers",
				i, len(passage.Questions), len(passage.Answers),
			)
		}
	}

	return passages, nil
}

// Flatten turns passages into one evaluation item per question/answer pair.
// The generated answer starts out equal to the reference; hallucination
// generation overwrites it later.
func Flatten(passages []models.Passage) []models.EvaluationItem {
	var items []models.EvaluationItem
	for _, passage := range passages {
		for i := range passage.Questions {
			items = append(items, models.EvaluationItem{
				Question:        passage.Questions[i],
				ExpectedAnswer:  passage.Answers[i],
				GeneratedAnswer: passage.Answers[i],
			})
		}
	}
	return items
}
