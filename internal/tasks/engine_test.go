package tasks

import (
	"testing"

	"github.com/desertthunder/wsx/internal/models"
	tu "github.com/desertthunder/wsx/internal/testing"
)

func loadSample(t *testing.T) []models.Task {
	t.Helper()
	ws, err := models.ParseWorksheet([]byte(tu.SampleWorksheet))
	if err != nil {
		t.Fatalf("failed to parse sample worksheet: %v", err)
	}
	return ws.Tasks
}

func newTestEngine(t *testing.T, opts EngineOpts) (*Engine, *Page) {
	t.Helper()
	tasks := loadSample(t)
	page := NewPage(tasks)
	opts.Surfaces = page
	e := NewEngine(opts)
	e.Load(tasks)
	return e, page
}

// panickyChoice blows up when read.
type panickyChoice struct{}

func (panickyChoice) Selected() (int, bool) { panic("detached element") }
func (panickyChoice) Select(int)            {}
func (panickyChoice) Clear()                {}

type panickySurfaces struct{ *Page }

func (s panickySurfaces) Choice(id string) ChoiceInput { return panickyChoice{} }

// panickyFeedback blows up when rendered.
type panickyFeedback struct{}

func (panickyFeedback) Show(Feedback) { panic("feedback element detached") }
func (panickyFeedback) Hide()         {}

type panickyFeedbackSurfaces struct{ *Page }

func (s panickyFeedbackSurfaces) Feedback(id string) FeedbackSurface { return panickyFeedback{} }

func TestEngine(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		e, page := newTestEngine(t, EngineOpts{})
		if len(e.Tasks()) != 4 {
			t.Fatalf("expected 4 tasks, got %d", len(e.Tasks()))
		}
		if e.CompletedCount() != 0 || e.Percentage() != 0 {
			t.Errorf("expected empty completion set")
		}
		if page.Percentage() != 0 {
			t.Errorf("expected progress surface reset, got %v", page.Percentage())
		}
	})

	t.Run("Percentage with no tasks", func(t *testing.T) {
		e := NewEngine(EngineOpts{})
		e.Load(nil)
		if e.Percentage() != 0 {
			t.Errorf("expected 0, got %v", e.Percentage())
		}
	})

	t.Run("Check unknown task is a no-op", func(t *testing.T) {
		e, _ := newTestEngine(t, EngineOpts{})
		if _, ok := e.Check("missing"); ok {
			t.Error("expected unknown task to be ignored")
		}
		if e.CompletedCount() != 0 {
			t.Error("expected completion set unchanged")
		}
	})

	t.Run("Check correct answer", func(t *testing.T) {
		refreshed := 0
		e, page := newTestEngine(t, EngineOpts{Refresh: func() { refreshed++ }})
		page.Choice("1").Select(1)

		res, ok := e.Check("1")
		if !ok || !res.IsCorrect {
			t.Fatalf("expected correct result, got %+v", res)
		}
		if !e.IsCompleted("1") {
			t.Error("expected task 1 completed")
		}
		if page.MarkerOf("1") != MarkerCorrect {
			t.Errorf("expected correct marker, got %v", page.MarkerOf("1"))
		}
		fb, visible := page.FeedbackOf("1")
		if !visible || fb.Kind != FeedbackCorrect || fb.Message != "3/4 is 0.75." {
			t.Errorf("unexpected feedback %+v", fb)
		}
		if page.Percentage() != 25 || page.CompletedCount() != 1 {
			t.Errorf("expected 25%% and 1 completed, got %v and %d", page.Percentage(), page.CompletedCount())
		}
		if refreshed != 1 {
			t.Errorf("expected refresh hook called once, got %d", refreshed)
		}
	})

	t.Run("completion is not sticky", func(t *testing.T) {
		e, page := newTestEngine(t, EngineOpts{})
		page.Text("2").SetValue("One")
		e.Check("2")
		if !e.IsCompleted("2") {
			t.Fatal("expected task 2 completed")
		}

		page.Text("2").SetValue("two")
		res, _ := e.Check("2")
		if res.IsCorrect || e.IsCompleted("2") {
			t.Error("expected wrong re-check to remove task from completion set")
		}
		if page.MarkerOf("2") != MarkerIncorrect {
			t.Errorf("expected incorrect marker, got %v", page.MarkerOf("2"))
		}
	})

	t.Run("Percentage", func(t *testing.T) {
		e, page := newTestEngine(t, EngineOpts{})
		page.Choice("1").Select(1)
		page.Text("3").SetValue("They name the same amount.")
		e.Check("1")
		e.Check("3")
		if e.Percentage() != 50 {
			t.Errorf("expected 50, got %v", e.Percentage())
		}
	})

	t.Run("drag and drop partial", func(t *testing.T) {
		e, page := newTestEngine(t, EngineOpts{})
		board := page.Board("4")
		board.DragStart("1/2")
		board.DragEnter("0.5")
		board.Drop("0.5")

		res, _ := e.Check("4")
		if res.IsCorrect {
			t.Error("expected partial placement to be incorrect")
		}
		if res.Feedback != "1 out of 2 matches are correct." {
			t.Errorf("unexpected feedback %q", res.Feedback)
		}

		board.Place("1/4", "0.25")
		if res, _ := e.Check("4"); !res.IsCorrect {
			t.Errorf("expected full placement to be correct, got %q", res.Feedback)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		e, page := newTestEngine(t, EngineOpts{})
		page.Choice("1").Select(1)
		page.Board("4").Place("1/2", "0.5")
		page.Board("4").Place("1/4", "0.25")
		e.Check("1")
		e.Check("4")
		if e.Percentage() != 50 {
			t.Fatalf("expected 50, got %v", e.Percentage())
		}

		e.Reset("1")
		if e.Percentage() != 25 || page.Percentage() != 25 {
			t.Errorf("expected 25 after reset, got %v", e.Percentage())
		}
		if _, ok := page.Choice("1").Selected(); ok {
			t.Error("expected choice cleared")
		}
		if _, visible := page.FeedbackOf("1"); visible {
			t.Error("expected feedback hidden")
		}
		if page.MarkerOf("1") != MarkerNone {
			t.Error("expected marker cleared")
		}

		e.Reset("4")
		e.Reset("4")
		if e.Percentage() != 0 {
			t.Errorf("expected 0, got %v", e.Percentage())
		}
		if len(page.Board("4").Tray()) != 2 {
			t.Errorf("expected items back in tray, got %v", page.Board("4").Tray())
		}

		e.Reset("missing")
	})

	t.Run("missing surfaces", func(t *testing.T) {
		e := NewEngine(EngineOpts{})
		e.Load(loadSample(t))
		for _, task := range e.Tasks() {
			res, ok := e.Check(task.ID)
			if !ok {
				t.Fatalf("expected task %s to be checked", task.ID)
			}
			if res.IsCorrect {
				t.Errorf("expected empty answer for %s to be incorrect", task.ID)
			}
			e.Reset(task.ID)
		}
	})

	t.Run("check failure is contained", func(t *testing.T) {
		tasks := loadSample(t)
		page := NewPage(tasks)
		store := tu.NewMemoryStore()
		e := NewEngine(EngineOpts{Surfaces: panickySurfaces{page}, Store: store, Key: "worksheet_progress", Autosave: true})
		e.Load(tasks)

		page.Text("2").SetValue("one")
		e.Check("2")

		res, ok := e.Check("1")
		if !ok || res.IsCorrect {
			t.Fatalf("expected failed check to be incorrect, got %+v", res)
		}
		fb, _ := page.FeedbackOf("1")
		if fb.Kind != FeedbackError || fb.Message != "Error checking answer. Please try again." {
			t.Errorf("unexpected feedback %+v", fb)
		}
		if page.MarkerOf("1") != MarkerIncorrect {
			t.Error("expected incorrect marker")
		}
		if !e.IsCompleted("2") {
			t.Error("expected other tasks unaffected")
		}

		page.Text("3").SetValue("Both name the same part of a whole.")
		if res, _ := e.Check("3"); !res.IsCorrect {
			t.Errorf("expected healthy task to check normally, got %+v", res)
		}
		e.InputChanged("2")

		payload, err := store.Get("worksheet_progress")
		if err != nil {
			t.Fatalf("expected progress saved despite the failing task: %v", err)
		}
		p, err := models.DecodeProgress(payload)
		if err != nil {
			t.Fatalf("failed to decode progress: %v", err)
		}
		if len(p.Completed) != 2 {
			t.Errorf("expected tasks 2 and 3 completed, got %v", p.Completed)
		}
		if _, ok := p.Answers["1"]; ok {
			t.Error("expected unreadable answer to be skipped")
		}
		if _, ok := p.Answers["3"]; !ok {
			t.Error("expected healthy answers to be saved")
		}
	})

	t.Run("feedback failure is contained", func(t *testing.T) {
		tasks := loadSample(t)
		page := NewPage(tasks)
		rec := &tu.MemoryRecorder{}
		e := NewEngine(EngineOpts{Surfaces: panickyFeedbackSurfaces{page}, Recorder: rec})
		e.Load(tasks)

		page.Text("2").SetValue("one")
		res, ok := e.Check("2")
		if !ok || res.IsCorrect {
			t.Fatalf("expected failed render to report incorrect, got %+v", res)
		}
		if res.Feedback != "Error checking answer. Please try again." {
			t.Errorf("unexpected feedback %q", res.Feedback)
		}
		if e.IsCompleted("2") || e.CompletedCount() != 0 {
			t.Errorf("expected empty completion set, got %v", e.Completed())
		}
		if page.MarkerOf("2") != MarkerIncorrect {
			t.Error("expected incorrect marker")
		}
		if page.CompletedCount() != 0 || page.Percentage() != 0 {
			t.Errorf("expected progress surface at 0, got %v", page.Percentage())
		}
		if len(rec.Responses) != 0 {
			t.Errorf("expected no response recorded, got %d", len(rec.Responses))
		}
	})

	t.Run("records responses", func(t *testing.T) {
		rec := &tu.MemoryRecorder{}
		e, page := newTestEngine(t, EngineOpts{Recorder: rec, Key: "worksheet_progress:fractions"})
		page.Text("2").SetValue("one")
		e.Check("2")
		e.Check("1")

		if len(rec.Responses) != 2 {
			t.Fatalf("expected 2 responses, got %d", len(rec.Responses))
		}
		first := rec.Responses[0]
		if first.TaskID != "2" || !first.IsCorrect || first.Worksheet != "worksheet_progress:fractions" {
			t.Errorf("unexpected response %+v", first)
		}
	})

	t.Run("Report", func(t *testing.T) {
		e, page := newTestEngine(t, EngineOpts{})
		page.Choice("1").Select(1)
		page.Board("4").Place("1/2", "0.5")
		e.Check("1")

		r := e.Report("Fractions Review")
		if r.Total != 4 || r.Completed != 1 || r.Percentage != 25 {
			t.Errorf("unexpected totals %+v", r)
		}
		if r.Entries[0].Answer != "3/4" || !r.Entries[0].Completed {
			t.Errorf("unexpected first entry %+v", r.Entries[0])
		}
		if r.Entries[3].Answer != "1/2 → 0.5" {
			t.Errorf("unexpected match answer %q", r.Entries[3].Answer)
		}
	})
}

func TestProgressKey(t *testing.T) {
	tests := []struct {
		namespace, slug, expected string
	}{
		{"", "", "worksheet_progress"},
		{"", "fractions", "worksheet_progress:fractions"},
		{"class-a", "fractions", "class-a:fractions"},
	}
	for _, tt := range tests {
		if got := ProgressKey(tt.namespace, tt.slug); got != tt.expected {
			t.Errorf("ProgressKey(%q, %q) = %q, want %q", tt.namespace, tt.slug, got, tt.expected)
		}
	}
}
