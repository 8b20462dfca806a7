package tasks

import "github.com/desertthunder/wsx/internal/models"

// Marker is the correctness flag shown on a task card. Markers are mutually exclusive.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerCorrect
	MarkerIncorrect
)

func (m Marker) String() string {
	switch m {
	case MarkerCorrect:
		return "correct"
	case MarkerIncorrect:
		return "incorrect"
	default:
		return ""
	}
}

// FeedbackKind tags rendered feedback.
type FeedbackKind int

const (
	FeedbackCorrect FeedbackKind = iota
	FeedbackIncorrect
	FeedbackError
)

// Feedback is the content rendered into a task's feedback surface.
type Feedback struct {
	Kind    FeedbackKind
	Heading string // "Correct!", "Incorrect" or "Error"
	Message string
}

// FeedbackSurface displays check results for one task.
type FeedbackSurface interface {
	Show(f Feedback)
	Hide()
}

// StatusSurface is the task card carrying the correctness marker.
type StatusSurface interface {
	SetMarker(m Marker)
}

// ChoiceInput is a single-choice option group.
type ChoiceInput interface {
	Selected() (index int, ok bool)
	Select(index int)
	Clear()
}

// TextInput is a single or multi line text field.
type TextInput interface {
	Value() string
	SetValue(v string)
}

// MatchInput is a drag-and-drop tray with drop targets. [Board] is the standard implementation.
type MatchInput interface {
	// Placements reads item→target for every occupied target.
	Placements() map[string]string
	// Place moves item onto target, evicting any occupant to the tray.
	Place(item, target string) bool
	// ReturnAll moves every placed item back to the tray and empties all targets.
	ReturnAll()
}

// ProgressSurface displays overall completion.
type ProgressSurface interface {
	SetPercentage(p float64)
	SetCompleted(n int)
}

// Surfaces resolves the display and input surfaces of a worksheet by task id.
//
// Every getter may return nil when the host has no such surface; the engine skips nil surfaces.
// Implementations must return an untyped nil, not a nil pointer wrapped in the interface.
type Surfaces interface {
	Feedback(taskID string) FeedbackSurface
	Card(taskID string) StatusSurface
	Choice(taskID string) ChoiceInput
	Text(taskID string) TextInput
	Match(taskID string) MatchInput
	Progress() ProgressSurface
}

// Store is local key/value storage for serialized progress. Writes overwrite in place.
type Store interface {
	// Get returns the payload stored under key, or [shared.ErrProgressNotFound].
	Get(key string) ([]byte, error)
	Put(key string, payload []byte) error
}

// Recorder receives a response record for every completed check.
type Recorder interface {
	Record(resp *models.TaskResponse) error
}
