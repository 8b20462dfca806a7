package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Worksheet and task errors
	ErrInvalidWorksheet = fmt.Errorf("invalid worksheet")
	ErrInvalidTask      = fmt.Errorf("invalid task")
	ErrUnknownTaskType  = fmt.Errorf("unknown task type")
	ErrTaskNotFound     = fmt.Errorf("task not found")
	ErrAnswerMismatch   = fmt.Errorf("answer does not match task type")

	// Storage errors
	ErrProgressNotFound = fmt.Errorf("stored progress not found")
	ErrMalformedPayload = fmt.Errorf("malformed progress payload")
	ErrStorageFailed    = fmt.Errorf("storage operation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
