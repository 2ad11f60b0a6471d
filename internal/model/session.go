package model

// Phase is the current step of the quiz session state machine.
type Phase string

const (
	PhaseConfiguring Phase = "configuring"
	PhaseLoading     Phase = "loading"
	PhaseError       Phase = "error"
	PhaseAnswering   Phase = "answering"
	PhaseResults     Phase = "results"
)

// Outcome is the per-question comparison shown on the results page.
type Outcome struct {
	QuestionID    int    `json:"question_id"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// Score summarises a submitted test.
type Score struct {
	Correct  int       `json:"correct"`
	Total    int       `json:"total"`
	Percent  float64   `json:"percent"`
	Outcomes []Outcome `json:"outcomes"`
}
