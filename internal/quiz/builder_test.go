package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mcq-client/internal/model"
)

func TestBuildRequestRequiresAPIKey(t *testing.T) {
	for _, key := range []string{"", " ", "\t\n  "} {
		cfg := model.DefaultQuizConfig()
		cfg.APIKey = key

		_, err := BuildRequest(cfg)
		require.ErrorIs(t, err, ErrMissingAPIKey, "key %q", key)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, ReasonMissingAPIKey, ve.Reason)
	}
}

func TestBuildRequestMinimalConfig(t *testing.T) {
	req, err := BuildRequest(model.QuizConfig{
		APIKey:       "k1",
		Subject:      model.SubjectPython,
		Difficulty:   model.DifficultyEasy,
		NumQuestions: 5,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, map[string]any{
		"api_key":       "k1",
		"subject":       "python",
		"difficulty":    "easy",
		"num_questions": float64(5),
	}, body)
}

func TestBuildRequestTrimsKeys(t *testing.T) {
	req, err := BuildRequest(model.QuizConfig{
		APIKey:         "  gem-key ",
		FallbackAPIKey: " \t",
		FallbackModel:  "gpt-4",
		Subject:        model.SubjectSQL,
		Difficulty:     model.DifficultyHard,
		NumQuestions:   50,
	})
	require.NoError(t, err)

	assert.Equal(t, "gem-key", req.APIKey)
	assert.Empty(t, req.FallbackAPIKey)
	assert.Equal(t, 50, req.NumQuestions)

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "fallback_api_key")
	assert.Contains(t, string(raw), `"fallback_model":"gpt-4"`)
}

func TestBuildRequestKeepsFallbackKey(t *testing.T) {
	cfg := model.DefaultQuizConfig()
	cfg.APIKey = "k"
	cfg.FallbackAPIKey = " sk-openai "

	req, err := BuildRequest(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", req.FallbackAPIKey)
	assert.Equal(t, "gpt-3.5-turbo", req.FallbackModel)
	assert.Equal(t, model.DefaultQuestions, req.NumQuestions)
}
