package handler

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/mcq-client/internal/middleware"
	"github.com/stemsi/mcq-client/internal/model"
	"github.com/stemsi/mcq-client/internal/quiz"
	"github.com/stemsi/mcq-client/internal/service"
	"github.com/stemsi/mcq-client/internal/validator"
	"github.com/stemsi/mcq-client/internal/view"
)

// answerFieldPrefix prefixes the radio group name of every question on the test page.
const answerFieldPrefix = "q_"

// QuizPageHandler serves the HTML quiz pages. Successful actions redirect back to
// the index so that reloading never repeats a form post.
type QuizPageHandler struct {
	quizService *service.QuizService
}

func NewQuizPageHandler(quizService *service.QuizService) *QuizPageHandler {
	return &QuizPageHandler{quizService: quizService}
}

// Index godoc
// GET /
func (h *QuizPageHandler) Index(c *gin.Context) {
	sess, err := h.quizService.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.internalError(c, err)
		return
	}
	h.render(c, http.StatusOK, view.NewPage(sess))
}

// Generate godoc
// POST /generate
func (h *QuizPageHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.GetSessionID(c)

	var cfg model.QuizConfig
	if fields := validator.Bind(c, &cfg); fields != nil {
		sess, err := h.quizService.Current(ctx, id)
		if err != nil {
			h.internalError(c, err)
			return
		}
		page := view.NewPage(sess)
		page.Form = withoutKeys(cfg)
		page.Prompt = fieldsMessage(fields)
		h.render(c, http.StatusUnprocessableEntity, page)
		return
	}

	sess, err := h.quizService.Generate(ctx, id, cfg)
	if err != nil {
		form := withoutKeys(cfg)
		h.failWithForm(c, err, &form)
		return
	}

	if sess.Phase == model.PhaseError {
		page := view.NewPage(sess)
		page.Form = withoutKeys(cfg)
		h.render(c, http.StatusOK, page)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Answers godoc
// POST /answers
func (h *QuizPageHandler) Answers(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.GetSessionID(c)

	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Malformed form data.")
		return
	}

	if _, err := h.quizService.SelectAnswers(ctx, id, postedAnswers(c.Request.PostForm)); err != nil {
		h.fail(c, err)
		return
	}

	if c.PostForm("action") == "submit" {
		if _, err := h.quizService.SubmitAnswers(ctx, id); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset godoc
// POST /reset
func (h *QuizPageHandler) Reset(c *gin.Context) {
	if _, err := h.quizService.Reset(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// RateLimited renders the current page with a prompt instead of running a rate-limited action.
func (h *QuizPageHandler) RateLimited(c *gin.Context) {
	sess, err := h.quizService.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.internalError(c, err)
		c.Abort()
		return
	}
	page := view.NewPage(sess)
	page.Prompt = "Too many requests. Please try again later."
	h.render(c, http.StatusTooManyRequests, page)
	c.Abort()
}

// fail re-renders the current page with a blocking prompt describing a rejected action.
func (h *QuizPageHandler) fail(c *gin.Context, err error) {
	h.failWithForm(c, err, nil)
}

// failWithForm is fail for the configuration form; a non-nil form replaces the defaults.
func (h *QuizPageHandler) failWithForm(c *gin.Context, err error, form *model.QuizConfig) {
	status, _ := quizErrorCode(err)
	if status == http.StatusInternalServerError {
		h.internalError(c, err)
		return
	}

	sess, curErr := h.quizService.Current(c.Request.Context(), middleware.GetSessionID(c))
	if curErr != nil {
		h.internalError(c, curErr)
		return
	}
	page := view.NewPage(sess)
	if form != nil {
		page.Form = *form
	}
	page.Prompt = quiz.Message(err)
	h.render(c, status, page)
}

func (h *QuizPageHandler) render(c *gin.Context, status int, page view.Page) {
	c.HTML(status, view.PageTemplate, page)
}

func (h *QuizPageHandler) internalError(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("quiz page failed")
	c.String(http.StatusInternalServerError, "An internal server error occurred.")
}

// withoutKeys keeps what the user chose on the form but never echoes API keys back.
func withoutKeys(cfg model.QuizConfig) model.QuizConfig {
	cfg.APIKey = ""
	cfg.FallbackAPIKey = ""
	return cfg
}

// postedAnswers collects q_<id>=<key> fields. Malformed names are ignored.
func postedAnswers(form map[string][]string) model.AnswerState {
	answers := model.AnswerState{}
	for name, values := range form {
		rest, ok := strings.CutPrefix(name, answerFieldPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		qid, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		answers[qid] = values[len(values)-1]
	}
	return answers
}

func fieldsMessage(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fields[name])
	}
	return strings.Join(msgs, " ")
}
