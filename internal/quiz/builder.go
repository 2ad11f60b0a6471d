package quiz

import (
	"strings"

	"github.com/stemsi/mcq-client/internal/model"
)

// BuildRequest turns a filled-in configuration form into the generation payload.
// The API key is required; both keys are trimmed and empty optional fields are left
// for the encoder to drop. NumQuestions is passed through as the form reported it.
func BuildRequest(cfg model.QuizConfig) (model.GenerationRequest, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return model.GenerationRequest{}, ErrMissingAPIKey
	}

	return model.GenerationRequest{
		APIKey:         apiKey,
		FallbackAPIKey: strings.TrimSpace(cfg.FallbackAPIKey),
		FallbackModel:  cfg.FallbackModel,
		Subject:        cfg.Subject,
		Difficulty:     cfg.Difficulty,
		NumQuestions:   cfg.NumQuestions,
	}, nil
}
