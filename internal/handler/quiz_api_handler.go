package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/mcq-client/internal/middleware"
	"github.com/stemsi/mcq-client/internal/model"
	"github.com/stemsi/mcq-client/internal/quiz"
	"github.com/stemsi/mcq-client/internal/response"
	"github.com/stemsi/mcq-client/internal/service"
	"github.com/stemsi/mcq-client/internal/validator"
)

// QuizAPIHandler exposes the quiz session as JSON for scripted clients and the page script.
type QuizAPIHandler struct {
	quizService *service.QuizService
}

func NewQuizAPIHandler(quizService *service.QuizService) *QuizAPIHandler {
	return &QuizAPIHandler{quizService: quizService}
}

// SelectAnswerRequest is the body of PUT /answers/:question_id.
type SelectAnswerRequest struct {
	OptionKey string `json:"option_key" binding:"required"`
}

// Options godoc
// GET /api/v1/quiz/options
func (h *QuizAPIHandler) Options(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"options": model.DefaultQuizOptions()})
}

// Session godoc
// GET /api/v1/quiz/session
func (h *QuizAPIHandler) Session(c *gin.Context) {
	sess, err := h.quizService.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, sess)
}

// Generate godoc
// POST /api/v1/quiz/generate
func (h *QuizAPIHandler) Generate(c *gin.Context) {
	var cfg model.QuizConfig
	if fields := validator.Bind(c, &cfg); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.quizService.Generate(c.Request.Context(), middleware.GetSessionID(c), cfg)
	if err != nil {
		h.fail(c, err)
		return
	}

	if sess.Phase == model.PhaseError {
		response.FailWithMessage(c, http.StatusBadGateway, generationFailureCode(sess), sess.Error)
		return
	}
	h.ok(c, sess)
}

// SelectAnswer godoc
// PUT /api/v1/quiz/answers/:question_id
func (h *QuizAPIHandler) SelectAnswer(c *gin.Context) {
	qid, err := strconv.Atoi(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.quizService.SelectAnswer(c.Request.Context(), middleware.GetSessionID(c), qid, req.OptionKey)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, sess)
}

// Submit godoc
// POST /api/v1/quiz/submit
func (h *QuizAPIHandler) Submit(c *gin.Context) {
	sess, err := h.quizService.SubmitAnswers(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, sess)
}

// Reset godoc
// POST /api/v1/quiz/reset
func (h *QuizAPIHandler) Reset(c *gin.Context) {
	sess, err := h.quizService.Reset(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, sess)
}

func (h *QuizAPIHandler) ok(c *gin.Context, sess quiz.Session) {
	response.Success(c, http.StatusOK, gin.H{"session": sess.Redacted()})
}

func (h *QuizAPIHandler) fail(c *gin.Context, err error) {
	status, code := quizErrorCode(err)
	if code == response.ErrInternal {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("quiz api failed")
	}
	response.Fail(c, status, code)
}
