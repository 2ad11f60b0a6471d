package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mcq-client/internal/model"
)

func twoQuestionResult() model.GenerationResult {
	return model.GenerationResult{
		Subject:      "python",
		Difficulty:   "easy",
		NumQuestions: 2,
		Questions: []model.Question{
			{
				ID:            1,
				Question:      "What does `len([])` return?",
				Options:       model.Options{{Key: "A", Text: "0"}, {Key: "B", Text: "1"}, {Key: "C", Text: "None"}},
				CorrectAnswer: "A",
			},
			{
				ID:            2,
				Question:      "Which keyword defines a function?",
				Options:       model.Options{{Key: "A", Text: "fun"}, {Key: "B", Text: "def"}, {Key: "C", Text: "func"}},
				CorrectAnswer: "B",
			},
		},
	}
}

func apply(t *testing.T, s Session, events ...Event) Session {
	t.Helper()
	for _, ev := range events {
		var err error
		s, err = Transition(s, ev)
		require.NoError(t, err, "event %T", ev)
	}
	return s
}

func answering(t *testing.T) Session {
	return apply(t, NewSession("s1"),
		SubmitConfig{},
		GenerationSucceeded{Result: twoQuestionResult()},
	)
}

func TestSubmitConfigEntersLoading(t *testing.T) {
	s := apply(t, NewSession("s1"), SubmitConfig{})
	assert.Equal(t, model.PhaseLoading, s.Phase)

	again, err := Transition(s, SubmitConfig{})
	assert.ErrorIs(t, err, ErrGenerationInProgress)
	assert.Equal(t, s, again)
}

func TestGenerationSucceededEntersAnswering(t *testing.T) {
	s := answering(t)
	assert.Equal(t, model.PhaseAnswering, s.Phase)
	assert.Len(t, s.Questions(), 2)
	assert.NotNil(t, s.Answers)
	assert.Empty(t, s.Answers)
}

func TestEmptyResultEntersError(t *testing.T) {
	for name, result := range map[string]model.GenerationResult{
		"absent": {Subject: "java"},
		"empty":  {Subject: "java", Questions: []model.Question{}},
	} {
		t.Run(name, func(t *testing.T) {
			s := apply(t, NewSession("s1"), SubmitConfig{}, GenerationSucceeded{Result: result})
			assert.Equal(t, model.PhaseError, s.Phase)
			assert.Equal(t, FailureEmpty, s.Failed)
			assert.Equal(t, "No questions returned from API.", s.Error)
			assert.Nil(t, s.Result)
		})
	}
}

func TestGenerationFailedEntersError(t *testing.T) {
	s := apply(t, NewSession("s1"), SubmitConfig{},
		GenerationFailed{Err: errors.New("Request failed with status code 500")})

	assert.Equal(t, model.PhaseError, s.Phase)
	assert.Equal(t, FailureRequest, s.Failed)
	assert.Equal(t, "Request failed with status code 500", s.Error)

	// the form stays usable: resubmitting starts a new call
	s = apply(t, s, SubmitConfig{})
	assert.Equal(t, model.PhaseLoading, s.Phase)
	assert.Empty(t, s.Error)
}

func TestGenerationFailedWithoutMessage(t *testing.T) {
	s := apply(t, NewSession("s1"), SubmitConfig{}, GenerationFailed{})
	assert.Equal(t, "Failed to generate questions.", s.Error)
}

func TestSelectAnswerIsIdempotent(t *testing.T) {
	s := apply(t, answering(t), SelectAnswer{QuestionID: 1, OptionKey: "B"})
	require.Equal(t, model.AnswerState{1: "B"}, s.Answers)

	again := apply(t, s, SelectAnswer{QuestionID: 1, OptionKey: "B"})
	assert.Equal(t, s, again)
	assert.Len(t, again.Answers, 1)

	changed := apply(t, s, SelectAnswer{QuestionID: 1, OptionKey: "A"})
	assert.Equal(t, model.AnswerState{1: "A"}, changed.Answers)
	assert.Equal(t, model.AnswerState{1: "B"}, s.Answers, "previous session must not be mutated")
}

func TestSelectAnswerRejectsUnknownChoices(t *testing.T) {
	s := answering(t)

	_, err := Transition(s, SelectAnswer{QuestionID: 9, OptionKey: "A"})
	assert.ErrorIs(t, err, ErrUnknownQuestion)

	_, err = Transition(s, SelectAnswer{QuestionID: 1, OptionKey: "a"})
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, err = Transition(NewSession("s1"), SelectAnswer{QuestionID: 1, OptionKey: "A"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSubmitWithMissingAnswersLeavesSessionUntouched(t *testing.T) {
	s := apply(t, answering(t), SelectAnswer{QuestionID: 1, OptionKey: "A"})

	next, err := Transition(s, SubmitAnswers{})
	require.ErrorIs(t, err, ErrIncompleteAnswers)
	assert.Equal(t, s, next)
	assert.Equal(t, model.PhaseAnswering, next.Phase)
	assert.Nil(t, next.Score)
}

func TestSubmitScoresAnswers(t *testing.T) {
	s := apply(t, answering(t),
		SelectAnswer{QuestionID: 1, OptionKey: "A"},
		SelectAnswer{QuestionID: 2, OptionKey: "C"},
		SubmitAnswers{},
	)

	require.Equal(t, model.PhaseResults, s.Phase)
	require.NotNil(t, s.Score)
	assert.Equal(t, 1, s.Score.Correct)
	assert.Equal(t, 2, s.Score.Total)
	assert.InDelta(t, 50.0, s.Score.Percent, 1e-9)
	assert.Equal(t, []model.Outcome{
		{QuestionID: 1, Selected: "A", CorrectAnswer: "A", IsCorrect: true},
		{QuestionID: 2, Selected: "C", CorrectAnswer: "B", IsCorrect: false},
	}, s.Score.Outcomes)
}

func TestResetFromResultsReturnsToConfiguring(t *testing.T) {
	s := apply(t, answering(t),
		SelectAnswer{QuestionID: 1, OptionKey: "A"},
		SelectAnswer{QuestionID: 2, OptionKey: "B"},
		SubmitAnswers{},
		Reset{},
	)

	assert.Equal(t, model.PhaseConfiguring, s.Phase)
	assert.Equal(t, 1, s.Attempt)
	assert.Nil(t, s.Result)
	assert.Nil(t, s.Answers)
	assert.Nil(t, s.Score)
}

func TestResetRules(t *testing.T) {
	loading := apply(t, NewSession("s1"), SubmitConfig{})
	_, err := Transition(loading, Reset{})
	assert.ErrorIs(t, err, ErrGenerationInProgress)

	errored := apply(t, loading, GenerationFailed{Err: errors.New("boom")})
	again := apply(t, errored, Reset{})
	assert.Equal(t, model.PhaseConfiguring, again.Phase)
	assert.Empty(t, again.Error)

	idle := NewSession("s1")
	assert.Equal(t, idle, apply(t, idle, Reset{}))
}

func TestGenerationEventsOutsideLoadingAreRejected(t *testing.T) {
	s := answering(t)

	_, err := Transition(s, GenerationSucceeded{Result: twoQuestionResult()})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(s, GenerationFailed{Err: errors.New("late")})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(s, SubmitConfig{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEachSubmitStartsANewAttempt(t *testing.T) {
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	first := apply(t, NewSession("s1"), SubmitConfig{At: started})
	assert.Equal(t, 1, first.Attempt)
	assert.Equal(t, started, first.LoadingSince)

	second := apply(t, first, GenerationFailed{Err: errors.New("boom")}, Reset{}, SubmitConfig{At: started.Add(time.Minute)})
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, started.Add(time.Minute), second.LoadingSince)
}

func TestOutcomeOfAnOlderAttemptIsRejected(t *testing.T) {
	s := apply(t, NewSession("s1"), SubmitConfig{}, GenerationFailed{Err: ErrGenerationAbandoned}, SubmitConfig{})
	require.Equal(t, 2, s.Attempt)

	_, err := Transition(s, GenerationSucceeded{Result: twoQuestionResult(), Attempt: 1})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = Transition(s, GenerationFailed{Err: errors.New("late"), Attempt: 1})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	next, err := Transition(s, GenerationSucceeded{Result: twoQuestionResult(), Attempt: 2})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseAnswering, next.Phase)
	assert.Equal(t, 2, next.Attempt)
}

func TestStale(t *testing.T) {
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s := apply(t, NewSession("s1"), SubmitConfig{At: started})

	assert.False(t, s.Stale(started.Add(9*time.Minute), 10*time.Minute))
	assert.True(t, s.Stale(started.Add(10*time.Minute), 10*time.Minute))
	assert.False(t, answering(t).Stale(started.Add(time.Hour), 10*time.Minute))
}

func TestRedactedHidesAnswersWhileAnswering(t *testing.T) {
	s := answering(t)

	r := s.Redacted()
	for _, q := range r.Questions() {
		assert.Empty(t, q.CorrectAnswer)
		assert.Empty(t, q.Explanation)
	}
	assert.NotEmpty(t, s.Questions()[0].CorrectAnswer, "original session must be untouched")
}
