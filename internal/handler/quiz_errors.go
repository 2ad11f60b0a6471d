package handler

import (
	"errors"
	"net/http"

	"github.com/stemsi/mcq-client/internal/quiz"
	"github.com/stemsi/mcq-client/internal/repository"
	"github.com/stemsi/mcq-client/internal/response"
)

// quizErrorCode maps an error returned by the quiz service to an HTTP status and
// envelope code. Unrecognised errors are internal.
func quizErrorCode(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, quiz.ErrMissingAPIKey):
		return http.StatusUnprocessableEntity, response.ErrMissingAPIKey
	case errors.Is(err, quiz.ErrIncompleteAnswers):
		return http.StatusUnprocessableEntity, response.ErrIncompleteAnswers
	case errors.Is(err, quiz.ErrUnknownQuestion):
		return http.StatusBadRequest, response.ErrUnknownQuestion
	case errors.Is(err, quiz.ErrUnknownOption):
		return http.StatusBadRequest, response.ErrUnknownOption
	case errors.Is(err, quiz.ErrGenerationInProgress):
		return http.StatusConflict, response.ErrGenerationInProgress
	case errors.Is(err, quiz.ErrInvalidTransition):
		return http.StatusConflict, response.ErrInvalidTransition
	case errors.Is(err, repository.ErrSessionConflict):
		return http.StatusConflict, response.ErrSessionConflict
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// generationFailureCode tells the two ways a generation can end in the error phase apart.
func generationFailureCode(sess quiz.Session) response.ErrCode {
	if sess.Failed == quiz.FailureEmpty {
		return response.ErrNoQuestions
	}
	return response.ErrGenerationFailed
}
