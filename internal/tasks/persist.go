package tasks

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"

	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
)

// Snapshot captures the completion set and every non-empty answer.
func (e *Engine) Snapshot() *models.PersistedProgress {
	p := &models.PersistedProgress{
		Timestamp: e.now().UnixMilli(),
		Completed: e.Completed(),
		Answers:   map[string]json.RawMessage{},
	}

	for _, t := range e.tasks {
		answer, err := e.safeAnswer(t)
		if err != nil {
			e.logger.Warn("skipping unreadable answer", "task", t.ID, "error", err)
			continue
		}
		if answer == nil || answer.Value() == nil {
			continue
		}
		raw, err := models.EncodeAnswer(answer)
		if err != nil {
			e.logger.Warn("skipping unencodable answer", "task", t.ID, "error", err)
			continue
		}
		p.Answers[t.ID] = raw
	}
	return p
}

// Save writes the current snapshot to the store, overwriting the previous one.
//
// Failures are logged and returned but leave the engine untouched.
func (e *Engine) Save() error {
	if e.store == nil {
		return nil
	}
	payload, err := e.Snapshot().Encode()
	if err != nil {
		e.logger.Error("failed to encode progress", "key", e.key, "error", err)
		return err
	}
	if err := e.store.Put(e.key, payload); err != nil {
		e.logger.Error("failed to save progress", "key", e.key, "error", err)
		return err
	}
	return nil
}

// InputChanged is the host's notification that a learner edited the input of a task.
func (e *Engine) InputChanged(taskID string) {
	if _, ok := e.index[taskID]; !ok {
		return
	}
	e.autoSave()
}

func (e *Engine) autoSave() {
	if e.autosave {
		_ = e.Save()
	}
}

// Restore loads the stored snapshot and rehydrates the completion set from it.
//
// Ids that are not loaded are dropped. Every loaded task's marker is rewritten to match the restored set. A missing or malformed payload leaves the engine unchanged and reports false.
// When answer replay is enabled, stored answers are written back into the input surfaces.
func (e *Engine) Restore() bool {
	if e.store == nil {
		return false
	}

	payload, err := e.store.Get(e.key)
	if err != nil {
		if !errors.Is(err, shared.ErrProgressNotFound) {
			e.logger.Error("failed to read progress", "key", e.key, "error", err)
		}
		return false
	}

	p, err := models.DecodeProgress(payload)
	if err != nil {
		e.logger.Error("discarding stored progress", "key", e.key, "error", err)
		return false
	}

	completed := make(map[string]struct{}, len(p.Completed))
	for _, id := range p.Completed {
		if _, ok := e.index[id]; ok {
			completed[id] = struct{}{}
		} else {
			e.logger.Debug("dropping unknown task from stored progress", "task", id)
		}
	}
	e.completed = completed

	for _, t := range e.tasks {
		if e.IsCompleted(t.ID) {
			e.setMarker(t.ID, MarkerCorrect)
		} else {
			e.setMarker(t.ID, MarkerNone)
		}
	}
	if e.replay {
		e.replayAnswers(p.Answers)
	}
	e.updateProgress()

	e.logger.Info("progress restored", "key", e.key, "completed", len(e.completed), "saved_at", p.SavedAt())
	return true
}

func (e *Engine) replayAnswers(answers map[string]json.RawMessage) {
	for id, raw := range answers {
		task, ok := e.Task(id)
		if !ok {
			continue
		}
		answer, err := models.DecodeAnswer(task.Type, raw)
		if err != nil {
			e.logger.Warn("skipping stored answer", "task", id, "error", err)
			continue
		}
		e.applyAnswer(task.ID, answer)
	}
}

func (e *Engine) applyAnswer(id string, answer models.Answer) {
	switch a := answer.(type) {
	case models.ChoiceAnswer:
		if in := e.surfaces.Choice(id); in != nil && a.Selected {
			in.Select(a.Index)
		}
	case models.TextAnswer:
		if in := e.surfaces.Text(id); in != nil {
			in.SetValue(a.Text)
		}
	case models.MatchAnswer:
		if in := e.surfaces.Match(id); in != nil {
			in.ReturnAll()
			for _, item := range slices.Sorted(maps.Keys(a)) {
				in.Place(item, a[item])
			}
		}
	}
}
