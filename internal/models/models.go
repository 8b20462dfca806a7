// package models defines the data model for worksheet tasks and progress
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persisted records.
type Model interface {
	ID() string      // ID returns the unique identifier for this model
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// TaskResponse records a single answer check.
type TaskResponse struct {
	id           string
	Sequence     int
	Worksheet    string   // worksheet storage key
	TaskID       string   // checked task
	TaskType     TaskType // type at the time of the check
	ResponseData string   // JSON encoded answer value
	IsCorrect    bool
	SubmittedAt  time.Time
}

var _ Model = (*TaskResponse)(nil)

// NewTaskResponse creates a response for the given check, stamped with the current time.
func NewTaskResponse(worksheet string, task Task, answer Answer, correct bool) *TaskResponse {
	data, err := EncodeAnswer(answer)
	if err != nil {
		data = nil
	}
	return &TaskResponse{
		Worksheet:    worksheet,
		TaskID:       task.ID,
		TaskType:     task.Type,
		ResponseData: string(data),
		IsCorrect:    correct,
		SubmittedAt:  time.Now(),
	}
}

func (r *TaskResponse) ID() string      { return r.id }
func (r *TaskResponse) SetID(id string) { r.id = id }

func (r *TaskResponse) Validate() error {
	if r.Worksheet == "" {
		return fmt.Errorf("worksheet is required")
	}
	if r.TaskID == "" {
		return fmt.Errorf("task id is required")
	}
	if !r.TaskType.Valid() {
		return fmt.Errorf("task type %q is not supported", r.TaskType)
	}
	return nil
}
