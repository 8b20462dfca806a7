package models

// ValidationResult is the outcome of checking one answer. Only the fields relevant to the task type are set.
type ValidationResult struct {
	IsCorrect      bool              `json:"is_correct"`
	Feedback       string            `json:"feedback"`
	CorrectAnswer  *int              `json:"correct_answer,omitempty"`  // multiple choice
	CorrectAnswers []string          `json:"correct_answers,omitempty"` // fill in the blank
	SampleAnswer   string            `json:"sample_answer,omitempty"`   // short answer
	CorrectMatches map[string]string `json:"correct_matches,omitempty"` // drag and drop
	Matched        int               `json:"matched,omitempty"`
	Required       int               `json:"required,omitempty"`
}
