package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/desertthunder/wsx/internal/shared"
	"github.com/go-playground/validator/v10"
)

// TaskType enumerates the supported exercise kinds.
type TaskType string

const (
	MultipleChoice TaskType = "multiple_choice"
	FillBlank      TaskType = "fill_blank"
	ShortAnswer    TaskType = "short_answer"
	DragDrop       TaskType = "drag_drop"
)

// TaskTypes lists every supported [TaskType] in display order.
var TaskTypes = []TaskType{MultipleChoice, FillBlank, ShortAnswer, DragDrop}

// Valid reports whether t is one of [TaskTypes].
func (t TaskType) Valid() bool {
	return slices.Contains(TaskTypes, t)
}

// Label returns a human readable name for t.
func (t TaskType) Label() string {
	switch t {
	case MultipleChoice:
		return "Multiple choice"
	case FillBlank:
		return "Fill in the blank"
	case ShortAnswer:
		return "Short answer"
	case DragDrop:
		return "Matching"
	default:
		return string(t)
	}
}

// TaskData is the type-specific payload of a [Task].
//
// Implementations: [MultipleChoiceData], [FillBlankData], [ShortAnswerData], [DragDropData].
type TaskData interface {
	TaskType() TaskType
}

// MultipleChoiceData holds a single-choice question. CorrectAnswer indexes Options.
type MultipleChoiceData struct {
	Options       []string `json:"options,omitempty" validate:"omitempty,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Explanation   string   `json:"explanation,omitempty"`
}

// FillBlankData holds the accepted answers for a single blank.
type FillBlankData struct {
	CorrectAnswers []string `json:"correct_answers" validate:"required,min=1,dive,required"`
	CaseSensitive  bool     `json:"case_sensitive"`
	Explanation    string   `json:"explanation,omitempty"`
}

// ShortAnswerData holds reference material for an open question. There is no correctness oracle.
type ShortAnswerData struct {
	SampleAnswer string   `json:"sample_answer,omitempty"`
	KeyPoints    []string `json:"key_points,omitempty"`
	MaxLength    int      `json:"max_length,omitempty" validate:"gte=0"`
}

// DragDropData holds a matching exercise: every item must be dropped on its target.
type DragDropData struct {
	Items          []string          `json:"items,omitempty" validate:"omitempty,dive,required"`
	Targets        []string          `json:"targets,omitempty" validate:"omitempty,dive,required"`
	CorrectMatches map[string]string `json:"correct_matches" validate:"required,min=1,dive,keys,required,endkeys,required"`
}

func (MultipleChoiceData) TaskType() TaskType { return MultipleChoice }
func (FillBlankData) TaskType() TaskType      { return FillBlank }
func (ShortAnswerData) TaskType() TaskType    { return ShortAnswer }
func (DragDropData) TaskType() TaskType       { return DragDrop }

// Task is a single worksheet exercise. Tasks are immutable once loaded.
type Task struct {
	ID         string   `json:"id"`
	Type       TaskType `json:"task_type"`
	Question   string   `json:"question"`
	OrderIndex int      `json:"order_index"`
	Data       TaskData `json:"task_data"`
}

var validate = validator.New()

// UnmarshalJSON decodes a task and parses its task_data into the variant selected by task_type.
//
// Numeric ids are accepted and stored in their decimal form.
func (t *Task) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Type       TaskType        `json:"task_type"`
		Question   string          `json:"question"`
		OrderIndex int             `json:"order_index"`
		Data       json.RawMessage `json:"task_data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidTask, err)
	}

	id, err := parseID(raw.ID)
	if err != nil {
		return err
	}

	data, err := ParseTaskData(raw.Type, raw.Data)
	if err != nil {
		if id != "" {
			return fmt.Errorf("task %s: %w", id, err)
		}
		return err
	}

	*t = Task{ID: id, Type: raw.Type, Question: raw.Question, OrderIndex: raw.OrderIndex, Data: data}
	return nil
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: id: %v", shared.ErrInvalidTask, err)
		}
		return strings.TrimSpace(s), nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: id must be a string or number", shared.ErrInvalidTask)
	}
	return n.String(), nil
}

// ParseTaskData decodes raw into the [TaskData] variant for t and validates it.
func ParseTaskData(t TaskType, raw json.RawMessage) (TaskData, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}

	switch t {
	case MultipleChoice:
		var d MultipleChoiceData
		if err := decodeData(raw, &d, "correct_answer"); err != nil {
			return nil, err
		}
		if len(d.Options) > 0 && d.CorrectAnswer >= len(d.Options) {
			return nil, fmt.Errorf("%w: correct_answer %d out of range for %d options", shared.ErrInvalidTask, d.CorrectAnswer, len(d.Options))
		}
		return d, nil
	case FillBlank:
		var d FillBlankData
		if err := decodeData(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case ShortAnswer:
		var d ShortAnswerData
		if err := decodeData(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case DragDrop:
		var d DragDropData
		if err := decodeData(raw, &d); err != nil {
			return nil, err
		}
		return normalizeDragDrop(d)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownTaskType, t)
	}
}

// decodeData unmarshals raw into dst, checks that every required key is present and runs struct validation.
func decodeData(raw json.RawMessage, dst any, required ...string) error {
	if len(required) > 0 {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			return fmt.Errorf("%w: task_data: %v", shared.ErrInvalidTask, err)
		}
		for _, k := range required {
			if _, ok := keys[k]; !ok {
				return fmt.Errorf("%w: task_data.%s is required", shared.ErrInvalidTask, k)
			}
		}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: task_data: %v", shared.ErrInvalidTask, err)
	}

	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: task_data: %v", shared.ErrInvalidTask, err)
	}
	return nil
}

// normalizeDragDrop fills in missing item/target lists from the answer key and checks the key against them.
func normalizeDragDrop(d DragDropData) (DragDropData, error) {
	keys := make([]string, 0, len(d.CorrectMatches))
	for item := range d.CorrectMatches {
		keys = append(keys, item)
	}
	sort.Strings(keys)

	if len(d.Items) == 0 {
		d.Items = keys
	}

	used := make(map[string]string, len(d.CorrectMatches))
	for _, item := range keys {
		target := d.CorrectMatches[item]
		if !slices.Contains(d.Items, item) {
			return d, fmt.Errorf("%w: correct_matches item %q is not in items", shared.ErrInvalidTask, item)
		}
		if other, ok := used[target]; ok {
			return d, fmt.Errorf("%w: items %q and %q share target %q", shared.ErrInvalidTask, other, item, target)
		}
		used[target] = item
	}

	if len(d.Targets) == 0 {
		for _, item := range keys {
			d.Targets = append(d.Targets, d.CorrectMatches[item])
		}
		sort.Strings(d.Targets)
	}

	for target := range used {
		if !slices.Contains(d.Targets, target) {
			return d, fmt.Errorf("%w: correct_matches target %q is not in targets", shared.ErrInvalidTask, target)
		}
	}

	return d, nil
}
