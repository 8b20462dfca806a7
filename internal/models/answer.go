package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/wsx/internal/shared"
)

// Answer is the current input of a task, shaped by its [TaskType].
//
// Implementations: [ChoiceAnswer], [TextAnswer], [MatchAnswer].
type Answer interface {
	TaskType() TaskType
	// Value returns the JSON-ready form of the answer, or nil when nothing was entered.
	Value() any
}

// ChoiceAnswer is the selected option of a multiple choice task.
type ChoiceAnswer struct {
	Index    int
	Selected bool
}

// TextAnswer is the trimmed text of a fill-in-the-blank or short answer task.
type TextAnswer struct {
	Type TaskType
	Text string
}

// MatchAnswer maps each placed item to the target it currently occupies.
type MatchAnswer map[string]string

func (ChoiceAnswer) TaskType() TaskType { return MultipleChoice }
func (a TextAnswer) TaskType() TaskType { return a.Type }
func (MatchAnswer) TaskType() TaskType  { return DragDrop }

func (a ChoiceAnswer) Value() any {
	if !a.Selected {
		return nil
	}
	return a.Index
}

func (a TextAnswer) Value() any {
	if a.Text == "" {
		return nil
	}
	return a.Text
}

func (a MatchAnswer) Value() any {
	if len(a) == 0 {
		return nil
	}
	return map[string]string(a)
}

// EncodeAnswer returns the JSON form of a's value.
func EncodeAnswer(a Answer) ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value())
}

// DecodeAnswer parses a stored answer value for a task of type t.
func DecodeAnswer(t TaskType, raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	empty := len(raw) == 0 || string(raw) == "null"

	switch t {
	case MultipleChoice:
		if empty {
			return ChoiceAnswer{}, nil
		}
		var idx int
		if err := json.Unmarshal(raw, &idx); err != nil {
			return nil, fmt.Errorf("%w: %s answer: %v", shared.ErrMalformedPayload, t, err)
		}
		return ChoiceAnswer{Index: idx, Selected: true}, nil
	case FillBlank, ShortAnswer:
		if empty {
			return TextAnswer{Type: t}, nil
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: %s answer: %v", shared.ErrMalformedPayload, t, err)
		}
		return TextAnswer{Type: t, Text: text}, nil
	case DragDrop:
		matches := MatchAnswer{}
		if empty {
			return matches, nil
		}
		if err := json.Unmarshal(raw, &matches); err != nil {
			return nil, fmt.Errorf("%w: %s answer: %v", shared.ErrMalformedPayload, t, err)
		}
		return matches, nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownTaskType, t)
	}
}
