package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/mcq-client/internal/model"
)

func TestGrade(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Options: model.Options{{Key: "A"}, {Key: "B"}}, CorrectAnswer: "A"},
		{ID: 2, Options: model.Options{{Key: "A"}, {Key: "B"}}, CorrectAnswer: "b"},
		{ID: 3, Options: model.Options{{Key: "A"}, {Key: "B"}}, CorrectAnswer: "E"},
		{ID: 4, Options: model.Options{{Key: "A"}, {Key: "B"}}, CorrectAnswer: "B"},
	}

	tests := []struct {
		name    string
		answers model.AnswerState
		correct int
		percent float64
	}{
		{"all correct where possible", model.AnswerState{1: "A", 2: "b", 3: "E", 4: "B"}, 4, 100},
		{"case sensitive", model.AnswerState{1: "A", 2: "B", 3: "A", 4: "B"}, 2, 50},
		{"correct key outside options", model.AnswerState{1: "B", 2: "A", 3: "B", 4: "A"}, 0, 0},
		{"three of four", model.AnswerState{1: "A", 2: "b", 3: "A", 4: "B"}, 3, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Grade(questions, tt.answers)
			assert.Equal(t, tt.correct, score.Correct)
			assert.Equal(t, 4, score.Total)
			assert.InDelta(t, tt.percent, score.Percent, 1e-9)
			assert.Len(t, score.Outcomes, 4)
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Please enter your Gemini API key.", Message(ErrMissingAPIKey))
	assert.Equal(t, "Please answer all questions before submitting.", Message(ErrIncompleteAnswers))
	assert.Equal(t, "Question generation did not finish. Please try again.", Message(ErrGenerationAbandoned))
	assert.Equal(t, "No questions returned from API.", Message(ErrEmptyResult))
	assert.Empty(t, Message(nil))
}
