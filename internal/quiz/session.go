package quiz

import (
	"maps"
	"time"

	"github.com/stemsi/mcq-client/internal/model"
)

// Session is the whole state of one quiz: its phase plus whatever that phase holds.
// Sessions are values; Transition never mutates the one it is given.
type Session struct {
	ID     string      `json:"id"`
	Phase  model.Phase `json:"phase"`
	Error  string      `json:"error,omitempty"`
	Failed FailureKind `json:"failed,omitempty"`

	// Attempt numbers generation calls; an outcome only lands on the attempt it answers.
	Attempt      int       `json:"attempt,omitempty"`
	LoadingSince time.Time `json:"loading_since,omitzero"`

	Result  *model.GenerationResult `json:"result,omitempty"`
	Answers model.AnswerState       `json:"answers,omitempty"`
	Score   *model.Score            `json:"score,omitempty"`
}

// FailureKind tells an empty result apart from a failed call while in the error phase.
type FailureKind string

const (
	FailureRequest FailureKind = "request"
	FailureEmpty   FailureKind = "empty"
)

// NewSession returns a session in the configuring phase.
func NewSession(id string) Session {
	return Session{ID: id, Phase: model.PhaseConfiguring}
}

// Questions returns the questions of the current result, if any.
func (s Session) Questions() []model.Question {
	if s.Result == nil {
		return nil
	}
	return s.Result.Questions
}

// Stale reports whether the session has been loading for at least after, i.e. the
// outcome of its generation call is not coming.
func (s Session) Stale(now time.Time, after time.Duration) bool {
	return s.Phase == model.PhaseLoading && now.Sub(s.LoadingSince) >= after
}

// Question looks up a question of the current result by id.
func (s Session) Question(id int) (model.Question, bool) {
	for _, q := range s.Questions() {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// Event is something that happened to a session: a user action or the outcome of
// the generation call.
type Event interface {
	event()
}

// SubmitConfig is sent once the configuration form has produced a valid request.
type SubmitConfig struct {
	Request model.GenerationRequest
	At      time.Time
}

// GenerationSucceeded carries the backend's response. A zero Attempt answers the
// current attempt.
type GenerationSucceeded struct {
	Result  model.GenerationResult
	Attempt int
}

// GenerationFailed carries the reason the call failed. A zero Attempt answers the
// current attempt.
type GenerationFailed struct {
	Err     error
	Attempt int
}

// SelectAnswer records the user's choice for one question.
type SelectAnswer struct {
	QuestionID int
	OptionKey  string
}

// SubmitAnswers asks for the test to be scored.
type SubmitAnswers struct{}

// Reset discards the current test, or dismisses an error, and returns to the form.
type Reset struct{}

func (SubmitConfig) event()        {}
func (GenerationSucceeded) event() {}
func (GenerationFailed) event()    {}
func (SelectAnswer) event()        {}
func (SubmitAnswers) event()       {}
func (Reset) event()               {}

// Transition applies ev to s and returns the resulting session. When the event is
// rejected the error is returned together with s unchanged.
func Transition(s Session, ev Event) (Session, error) {
	switch e := ev.(type) {
	case SubmitConfig:
		return submitConfig(s, e)
	case GenerationSucceeded:
		return generationSucceeded(s, e)
	case GenerationFailed:
		return generationFailed(s, e)
	case SelectAnswer:
		return selectAnswer(s, e)
	case SubmitAnswers:
		return submitAnswers(s)
	case Reset:
		return reset(s)
	default:
		return s, ErrInvalidTransition
	}
}

func submitConfig(s Session, e SubmitConfig) (Session, error) {
	switch s.Phase {
	case model.PhaseConfiguring, model.PhaseError:
		next := NewSession(s.ID)
		next.Phase = model.PhaseLoading
		next.Attempt = s.Attempt + 1
		next.LoadingSince = e.At
		return next, nil
	case model.PhaseLoading:
		return s, ErrGenerationInProgress
	default:
		return s, ErrInvalidTransition
	}
}

func answersAttempt(s Session, attempt int) bool {
	return s.Phase == model.PhaseLoading && (attempt == 0 || attempt == s.Attempt)
}

func generationSucceeded(s Session, e GenerationSucceeded) (Session, error) {
	if !answersAttempt(s, e.Attempt) {
		return s, ErrInvalidTransition
	}

	if len(e.Result.Questions) == 0 {
		return failed(s, FailureEmpty, ErrEmptyResult), nil
	}

	result := e.Result
	return Session{
		ID:      s.ID,
		Phase:   model.PhaseAnswering,
		Attempt: s.Attempt,
		Result:  &result,
		Answers: model.AnswerState{},
	}, nil
}

func generationFailed(s Session, e GenerationFailed) (Session, error) {
	if !answersAttempt(s, e.Attempt) {
		return s, ErrInvalidTransition
	}
	return failed(s, FailureRequest, e.Err), nil
}

func failed(s Session, kind FailureKind, err error) Session {
	msg := "Failed to generate questions."
	if err != nil {
		msg = Message(err)
	}
	return Session{
		ID:      s.ID,
		Phase:   model.PhaseError,
		Error:   msg,
		Failed:  kind,
		Attempt: s.Attempt,
	}
}

func selectAnswer(s Session, e SelectAnswer) (Session, error) {
	if s.Phase != model.PhaseAnswering {
		return s, ErrInvalidTransition
	}

	q, ok := s.Question(e.QuestionID)
	if !ok {
		return s, ErrUnknownQuestion
	}
	if !q.Options.Has(e.OptionKey) {
		return s, ErrUnknownOption
	}
	if current, answered := s.Answers[e.QuestionID]; answered && current == e.OptionKey {
		return s, nil
	}

	answers := maps.Clone(s.Answers)
	if answers == nil {
		answers = model.AnswerState{}
	}
	answers[e.QuestionID] = e.OptionKey

	next := s
	next.Answers = answers
	return next, nil
}

func submitAnswers(s Session) (Session, error) {
	if s.Phase != model.PhaseAnswering {
		return s, ErrInvalidTransition
	}

	questions := s.Questions()
	if len(s.Answers) < len(questions) {
		return s, ErrIncompleteAnswers
	}

	score := Grade(questions, s.Answers)
	next := s
	next.Phase = model.PhaseResults
	next.Score = &score
	return next, nil
}

func reset(s Session) (Session, error) {
	switch s.Phase {
	case model.PhaseLoading:
		return s, ErrGenerationInProgress
	case model.PhaseConfiguring:
		return s, nil
	default:
		next := NewSession(s.ID)
		next.Attempt = s.Attempt
		return next, nil
	}
}

// Redacted returns s as it may be shown while the test is still open: during the
// answering phase every question loses its correct key and explanation.
func (s Session) Redacted() Session {
	if s.Phase != model.PhaseAnswering || s.Result == nil {
		return s
	}

	result := *s.Result
	result.Questions = make([]model.Question, len(s.Result.Questions))
	for i, q := range s.Result.Questions {
		q.CorrectAnswer = ""
		q.Explanation = ""
		result.Questions[i] = q
	}

	out := s
	out.Result = &result
	return out
}
