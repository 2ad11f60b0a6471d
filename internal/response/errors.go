package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation        ErrCode = "VALIDATION_ERROR"
	ErrInvalidID         ErrCode = "INVALID_ID"
	ErrMissingAPIKey     ErrCode = "MISSING_API_KEY"
	ErrIncompleteAnswers ErrCode = "INCOMPLETE_ANSWERS"
	ErrUnknownQuestion   ErrCode = "UNKNOWN_QUESTION"
	ErrUnknownOption     ErrCode = "UNKNOWN_OPTION"

	// ─── Session ───────────────────────────────────────────────────────
	ErrGenerationInProgress ErrCode = "GENERATION_IN_PROGRESS"
	ErrInvalidTransition    ErrCode = "INVALID_TRANSITION"
	ErrSessionConflict      ErrCode = "SESSION_CONFLICT"

	// ─── Generation ────────────────────────────────────────────────────
	ErrGenerationFailed ErrCode = "GENERATION_FAILED"
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrMissingAPIKey:
		return "Please enter your Gemini API key."
	case ErrIncompleteAnswers:
		return "Please answer all questions before submitting."
	case ErrUnknownQuestion:
		return "That question is not part of the current test."
	case ErrUnknownOption:
		return "That option does not belong to the question."

	case ErrGenerationInProgress:
		return "Your questions are still being generated."
	case ErrInvalidTransition:
		return "This action is not available right now."
	case ErrSessionConflict:
		return "Your session was busy. Please try again."

	case ErrGenerationFailed:
		return "Failed to generate questions."
	case ErrNoQuestions:
		return "No questions returned from API."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
