package quiz

import (
	"errors"
	"strings"
)

// ValidationReason names a local validation failure that blocks an action before
// anything else happens.
type ValidationReason string

const (
	ReasonMissingAPIKey     ValidationReason = "MISSING_API_KEY"
	ReasonIncompleteAnswers ValidationReason = "INCOMPLETE_ANSWERS"
)

// ValidationError is returned for failures the user must fix before retrying.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingAPIKey:
		return "api key is required"
	case ReasonIncompleteAnswers:
		return "every question needs an answer before submitting"
	default:
		return "validation failed: " + string(e.Reason)
	}
}

var (
	ErrMissingAPIKey     = &ValidationError{Reason: ReasonMissingAPIKey}
	ErrIncompleteAnswers = &ValidationError{Reason: ReasonIncompleteAnswers}
)

var (
	// ErrEmptyResult means the backend answered but supplied no questions.
	ErrEmptyResult = errors.New("no questions returned from API")

	ErrGenerationInProgress = errors.New("a question set is already being generated")
	ErrInvalidTransition    = errors.New("action not allowed in the current phase")
	ErrUnknownQuestion      = errors.New("question does not exist")
	ErrUnknownOption        = errors.New("option does not exist for this question")

	// ErrGenerationAbandoned fails a session whose generation outcome never arrived.
	ErrGenerationAbandoned = errors.New("question generation did not finish")
)

// Message returns the text shown to the user for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey):
		return "Please enter your Gemini API key."
	case errors.Is(err, ErrIncompleteAnswers):
		return "Please answer all questions before submitting."
	case errors.Is(err, ErrEmptyResult):
		return "No questions returned from API."
	case errors.Is(err, ErrGenerationInProgress):
		return "Your questions are still being generated."
	case errors.Is(err, ErrGenerationAbandoned):
		return "Question generation did not finish. Please try again."
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "Failed to generate questions."
}
