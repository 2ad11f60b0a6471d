package quiz

import "github.com/stemsi/mcq-client/internal/model"

// Grade compares every answer against its question's correct key. Comparison is exact
// and case-sensitive; a correct key that names no option is never repaired.
func Grade(questions []model.Question, answers model.AnswerState) model.Score {
	score := model.Score{
		Total:    len(questions),
		Outcomes: make([]model.Outcome, 0, len(questions)),
	}

	for _, q := range questions {
		selected := answers[q.ID]
		ok := selected == q.CorrectAnswer
		if ok {
			score.Correct++
		}
		score.Outcomes = append(score.Outcomes, model.Outcome{
			QuestionID:    q.ID,
			Selected:      selected,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     ok,
		})
	}

	if score.Total > 0 {
		score.Percent = 100 * float64(score.Correct) / float64(score.Total)
	}
	return score
}
