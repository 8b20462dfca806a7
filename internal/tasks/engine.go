package tasks

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
)

// DefaultNamespace is the storage key prefix used when none is configured.
const DefaultNamespace = "worksheet_progress"

// ProgressKey builds the storage key of a worksheet under namespace.
func ProgressKey(namespace, worksheetSlug string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if worksheetSlug == "" {
		return namespace
	}
	return namespace + ":" + worksheetSlug
}

// Engine owns the loaded tasks and the set of tasks currently judged correct.
//
// Every method runs to completion synchronously. An Engine is not safe for concurrent use; hosts call it from
// their single event loop.
type Engine struct {
	tasks     []models.Task
	index     map[string]int
	completed map[string]struct{}

	surfaces Surfaces
	store    Store
	recorder Recorder
	refresh  func()
	key      string
	replay   bool
	autosave bool
	logger   *log.Logger
	now      func() time.Time
}

// EngineOpts contains the collaborators of an [Engine]. Every field is optional.
type EngineOpts struct {
	Surfaces Surfaces
	Store    Store
	Recorder Recorder
	// Refresh is called after any feedback render.
	Refresh func()
	// Key is the storage key; defaults to [DefaultNamespace].
	Key string
	// ReplayAnswers restores stored answers into the input surfaces on [Engine.Restore].
	ReplayAnswers bool
	// Autosave writes a snapshot after every input change, check and reset.
	Autosave bool
	Logger        *log.Logger
	Now           func() time.Time
}

// NewEngine creates an engine with no tasks loaded.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Surfaces == nil {
		opts.Surfaces = noSurfaces{}
	}
	if opts.Key == "" {
		opts.Key = DefaultNamespace
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		index:     map[string]int{},
		completed: map[string]struct{}{},
		surfaces:  opts.Surfaces,
		store:     opts.Store,
		recorder:  opts.Recorder,
		refresh:   opts.Refresh,
		key:       opts.Key,
		replay:    opts.ReplayAnswers,
		autosave:  opts.Autosave,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Load replaces the task list and empties the completion set.
func (e *Engine) Load(tasks []models.Task) {
	e.tasks = append([]models.Task(nil), tasks...)
	e.index = make(map[string]int, len(tasks))
	for i, t := range e.tasks {
		e.index[t.ID] = i
	}
	e.completed = map[string]struct{}{}
	e.updateProgress()
	e.logger.Debug("worksheet loaded", "key", e.key, "tasks", len(e.tasks))
}

// Key returns the storage key.
func (e *Engine) Key() string { return e.key }

// Tasks returns the loaded tasks in order.
func (e *Engine) Tasks() []models.Task {
	return append([]models.Task(nil), e.tasks...)
}

// Task looks up a loaded task.
func (e *Engine) Task(id string) (models.Task, bool) {
	i, ok := e.index[id]
	if !ok {
		return models.Task{}, false
	}
	return e.tasks[i], true
}

// IsCompleted reports whether the task is in the completion set.
func (e *Engine) IsCompleted(id string) bool {
	_, ok := e.completed[id]
	return ok
}

// Completed returns the completed task ids in task order.
func (e *Engine) Completed() []string {
	ids := make([]string, 0, len(e.completed))
	for _, t := range e.tasks {
		if e.IsCompleted(t.ID) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// CompletedCount returns the size of the completion set.
func (e *Engine) CompletedCount() int { return len(e.completed) }

// Percentage returns completed/total×100, or 0 when no tasks are loaded.
func (e *Engine) Percentage() float64 {
	if len(e.tasks) == 0 {
		return 0
	}
	return float64(len(e.completed)) / float64(len(e.tasks)) * 100
}

// Check reads the current answer of a task, validates it and updates feedback, marker, completion and progress.
//
// Unknown ids are ignored and report ok=false. Failures while reading or validating the answer, or while rendering
// feedback, are shown as a generic error and leave the task incorrect.
func (e *Engine) Check(id string) (result models.ValidationResult, ok bool) {
	task, found := e.Task(id)
	if !found {
		return models.ValidationResult{}, false
	}

	answer, result, err := e.evaluate(task)
	if err == nil {
		fb := Feedback{Kind: FeedbackIncorrect, Heading: "Incorrect", Message: result.Feedback}
		if result.IsCorrect {
			fb = Feedback{Kind: FeedbackCorrect, Heading: "Correct!", Message: result.Feedback}
		}
		err = e.showFeedback(id, fb)
	}

	if err != nil {
		e.logger.Error("error checking answer", "task", id, "error", err)
		if ferr := e.showFeedback(id, Feedback{Kind: FeedbackError, Heading: "Error", Message: msgCheckError}); ferr != nil {
			e.logger.Warn("failed to render error feedback", "task", id, "error", ferr)
		}
		e.setMarker(id, MarkerIncorrect)
		delete(e.completed, id)
		e.updateProgress()
		e.autoSave()
		return models.ValidationResult{IsCorrect: false, Feedback: msgCheckError}, true
	}

	marker := MarkerIncorrect
	if result.IsCorrect {
		marker = MarkerCorrect
		e.completed[id] = struct{}{}
	} else {
		delete(e.completed, id)
	}

	e.setMarker(id, marker)
	e.updateProgress()
	e.record(task, answer, result.IsCorrect)
	e.autoSave()

	e.logger.Debug("answer checked", "task", id, "type", task.Type, "correct", result.IsCorrect)
	return result, true
}

// evaluate extracts and validates, converting panics from host surfaces into errors.
func (e *Engine) evaluate(task models.Task) (answer models.Answer, result models.ValidationResult, err error) {
	answer, err = e.safeAnswer(task)
	if err != nil {
		return nil, result, err
	}

	defer recoverInto(&err, "validating task "+task.ID)
	result, err = Validate(task, answer)
	return answer, result, err
}

// safeAnswer is [Engine.Answer] with panics from host surfaces converted into errors.
func (e *Engine) safeAnswer(task models.Task) (answer models.Answer, err error) {
	defer recoverInto(&err, "reading task "+task.ID)
	return e.Answer(task)
}

func recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic while %s: %v", op, r)
	}
}

// Answer reads the current answer of task from its input surface.
//
// Missing surfaces read as empty answers.
func (e *Engine) Answer(task models.Task) (models.Answer, error) {
	switch task.Type {
	case models.MultipleChoice:
		in := e.surfaces.Choice(task.ID)
		if in == nil {
			return models.ChoiceAnswer{}, nil
		}
		idx, ok := in.Selected()
		return models.ChoiceAnswer{Index: idx, Selected: ok}, nil
	case models.FillBlank, models.ShortAnswer:
		in := e.surfaces.Text(task.ID)
		if in == nil {
			return models.TextAnswer{Type: task.Type}, nil
		}
		return models.TextAnswer{Type: task.Type, Text: strings.TrimSpace(in.Value())}, nil
	case models.DragDrop:
		in := e.surfaces.Match(task.ID)
		if in == nil {
			return models.MatchAnswer{}, nil
		}
		return models.MatchAnswer(in.Placements()), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownTaskType, task.Type)
	}
}

// Reset clears the input of a task, hides its feedback, removes its marker and drops it from the completion set.
// Resetting twice has the same effect as resetting once.
func (e *Engine) Reset(id string) {
	task, found := e.Task(id)
	if !found {
		return
	}

	switch task.Type {
	case models.MultipleChoice:
		if in := e.surfaces.Choice(id); in != nil {
			in.Clear()
		}
	case models.FillBlank, models.ShortAnswer:
		if in := e.surfaces.Text(id); in != nil {
			in.SetValue("")
		}
	case models.DragDrop:
		if in := e.surfaces.Match(id); in != nil {
			in.ReturnAll()
		}
	}

	if fb := e.surfaces.Feedback(id); fb != nil {
		fb.Hide()
	}
	e.setMarker(id, MarkerNone)
	delete(e.completed, id)
	e.updateProgress()
	e.autoSave()
}

func (e *Engine) showFeedback(id string, fb Feedback) (err error) {
	defer recoverInto(&err, "rendering feedback for task "+id)

	surface := e.surfaces.Feedback(id)
	if surface == nil {
		return nil
	}
	surface.Show(fb)
	if e.refresh != nil {
		e.refresh()
	}
	return nil
}

func (e *Engine) setMarker(id string, m Marker) {
	if card := e.surfaces.Card(id); card != nil {
		card.SetMarker(m)
	}
}

func (e *Engine) updateProgress() {
	p := e.surfaces.Progress()
	if p == nil {
		return
	}
	p.SetPercentage(e.Percentage())
	p.SetCompleted(e.CompletedCount())
}

func (e *Engine) record(task models.Task, answer models.Answer, correct bool) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(models.NewTaskResponse(e.key, task, answer, correct)); err != nil {
		e.logger.Warn("failed to record response", "task", task.ID, "error", err)
	}
}

// noSurfaces is the host with no display at all.
type noSurfaces struct{}

func (noSurfaces) Feedback(string) FeedbackSurface { return nil }
func (noSurfaces) Card(string) StatusSurface       { return nil }
func (noSurfaces) Choice(string) ChoiceInput       { return nil }
func (noSurfaces) Text(string) TextInput           { return nil }
func (noSurfaces) Match(string) MatchInput         { return nil }
func (noSurfaces) Progress() ProgressSurface       { return nil }
