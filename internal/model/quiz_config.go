package model

// Subject is the technical topic a quiz targets.
type Subject string

const (
	SubjectJava      Subject = "java"
	SubjectPython    Subject = "python"
	SubjectSQL       Subject = "sql"
	SubjectR         Subject = "r"
	SubjectLinux     Subject = "linux"
	SubjectAnalytics Subject = "analytics"
	SubjectCassandra Subject = "cassandra"
	SubjectMongoDB   Subject = "mongodb"
)

// Subjects lists every subject offered by the configuration form, in display order.
var Subjects = []Subject{
	SubjectJava, SubjectPython, SubjectSQL, SubjectR,
	SubjectLinux, SubjectAnalytics, SubjectCassandra, SubjectMongoDB,
}

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// FallbackModels are the secondary models the backend may use when the primary provider fails.
var FallbackModels = []string{"gpt-3.5-turbo", "gpt-4"}

const (
	MinQuestions     = 5
	MaxQuestions     = 50
	DefaultQuestions = 10
)

// QuizConfig is the configuration form as filled in by the user.
// It is discarded once the generation request has been built.
type QuizConfig struct {
	APIKey         string     `json:"api_key" form:"api_key"`
	FallbackAPIKey string     `json:"fallback_api_key" form:"fallback_api_key"`
	FallbackModel  string     `json:"fallback_model" form:"fallback_model" binding:"omitempty,oneof=gpt-3.5-turbo gpt-4"`
	Subject        Subject    `json:"subject" form:"subject" binding:"required,oneof=java python sql r linux analytics cassandra mongodb"`
	Difficulty     Difficulty `json:"difficulty" form:"difficulty" binding:"required,oneof=easy medium hard"`
	NumQuestions   int        `json:"num_questions" form:"num_questions" binding:"required,min=5,max=50"`
}

// DefaultQuizConfig returns the values the configuration form starts with.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		FallbackModel: FallbackModels[0],
		Subject:       Subjects[0],
		Difficulty:    Difficulties[0],
		NumQuestions:  DefaultQuestions,
	}
}

// GenerationRequest is the JSON body sent to the question generation endpoint.
// Optional fallback fields are left out of the payload entirely when empty.
type GenerationRequest struct {
	APIKey         string     `json:"api_key"`
	FallbackAPIKey string     `json:"fallback_api_key,omitempty"`
	FallbackModel  string     `json:"fallback_model,omitempty"`
	Subject        Subject    `json:"subject"`
	Difficulty     Difficulty `json:"difficulty"`
	NumQuestions   int        `json:"num_questions"`
}

// QuizOptions describes the choices offered by the configuration form.
type QuizOptions struct {
	Subjects       []Subject    `json:"subjects"`
	Difficulties   []Difficulty `json:"difficulties"`
	FallbackModels []string     `json:"fallback_models"`
	MinQuestions   int          `json:"min_questions"`
	MaxQuestions   int          `json:"max_questions"`
	Defaults       QuizConfig   `json:"defaults"`
}

// DefaultQuizOptions returns the fixed enumerations exposed to the configuration form.
func DefaultQuizOptions() QuizOptions {
	return QuizOptions{
		Subjects:       Subjects,
		Difficulties:   Difficulties,
		FallbackModels: FallbackModels,
		MinQuestions:   MinQuestions,
		MaxQuestions:   MaxQuestions,
		Defaults:       DefaultQuizConfig(),
	}
}
