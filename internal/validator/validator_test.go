package validator

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mcq-client/internal/model"
)

func bindForm(t *testing.T, form url.Values) (model.QuizConfig, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var cfg model.QuizConfig
	fields := Bind(c, &cfg)
	return cfg, fields
}

func TestBindQuizConfigForm(t *testing.T) {
	cfg, fields := bindForm(t, url.Values{
		"api_key":          {" key "},
		"fallback_api_key": {""},
		"fallback_model":   {"gpt-4"},
		"subject":          {"mongodb"},
		"difficulty":       {"medium"},
		"num_questions":    {"25"},
	})
	require.Nil(t, fields)
	assert.Equal(t, " key ", cfg.APIKey, "trimming belongs to the request builder")
	assert.Equal(t, model.SubjectMongoDB, cfg.Subject)
	assert.Equal(t, 25, cfg.NumQuestions)
}

func TestBindQuizConfigRejectsOutOfRange(t *testing.T) {
	_, fields := bindForm(t, url.Values{
		"subject":       {"cobol"},
		"difficulty":    {"extreme"},
		"num_questions": {"51"},
	})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "subject")
	assert.Contains(t, fields, "difficulty")
	assert.Contains(t, fields, "num_questions")
	assert.NotContains(t, fields, "api_key", "a missing key is reported by the request builder")
}
