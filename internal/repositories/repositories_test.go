package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
	"github.com/desertthunder/wsx/internal/tasks"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// every pooled connection to :memory: is a separate database
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

var (
	_ tasks.Store    = (*ProgressStore)(nil)
	_ tasks.Recorder = (*ResponseRepository)(nil)
)

func TestProgressStore(t *testing.T) {
	t.Run("Get missing key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewProgressStore(db).Get("worksheet_progress")
		if !errors.Is(err, shared.ErrProgressNotFound) {
			t.Errorf("expected ErrProgressNotFound, got %v", err)
		}
	})

	t.Run("Put overwrites in place", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store := NewProgressStore(db)
		if err := store.Put("worksheet_progress", []byte(`{"completed":["1"]}`)); err != nil {
			t.Fatalf("failed to put: %v", err)
		}
		if err := store.Put("worksheet_progress", []byte(`{"completed":["1","3"]}`)); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		payload, err := store.Get("worksheet_progress")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if string(payload) != `{"completed":["1","3"]}` {
			t.Errorf("expected latest payload, got %s", payload)
		}

		entries, err := store.List()
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Key != "worksheet_progress" || entries[0].Size != len(`{"completed":["1","3"]}`) {
			t.Errorf("unexpected entry %+v", entries[0])
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store := NewProgressStore(db)
		store.Put("a", []byte("{}"))

		if err := store.Delete("a"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := store.Get("a"); !errors.Is(err, shared.ErrProgressNotFound) {
			t.Errorf("expected deleted key to be missing, got %v", err)
		}
		if err := store.Delete("a"); !errors.Is(err, shared.ErrProgressNotFound) {
			t.Errorf("expected ErrProgressNotFound on second delete, got %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		store := NewProgressStore(db)
		if err := store.Put("a", []byte("{}")); !errors.Is(err, shared.ErrStorageFailed) {
			t.Errorf("expected ErrStorageFailed, got %v", err)
		}
		if _, err := store.Get("a"); !errors.Is(err, shared.ErrStorageFailed) {
			t.Errorf("expected ErrStorageFailed, got %v", err)
		}
	})
}

func newResponse(worksheet, taskID string, correct bool) *models.TaskResponse {
	task := models.Task{ID: taskID, Type: models.FillBlank, Data: models.FillBlankData{CorrectAnswers: []string{"x"}}}
	return models.NewTaskResponse(worksheet, task, models.TextAnswer{Type: models.FillBlank, Text: "x"}, correct)
}

func TestResponseRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResponseRepository(db)
		resp := newResponse("worksheet_progress:fractions", "2", true)

		if err := repo.Create(resp); err != nil {
			t.Fatalf("failed to create response: %v", err)
		}
		if resp.ID() == "" {
			t.Error("response ID should be set after creation")
		}
		if resp.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", resp.Sequence)
		}
	})

	t.Run("Create validation error", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if err := NewResponseRepository(db).Create(newResponse("", "2", true)); err == nil {
			t.Fatal("expected validation error for empty worksheet")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResponseRepository(db)
		resp := newResponse("ws", "2", true)
		if err := repo.Record(resp); err != nil {
			t.Fatalf("failed to record response: %v", err)
		}

		retrieved, err := repo.Get(resp.ID())
		if err != nil {
			t.Fatalf("failed to get response: %v", err)
		}
		if retrieved.TaskID != "2" || retrieved.TaskType != models.FillBlank || !retrieved.IsCorrect {
			t.Errorf("unexpected response %+v", retrieved)
		}
		if retrieved.ResponseData != `"x"` {
			t.Errorf("expected response data %q, got %q", `"x"`, retrieved.ResponseData)
		}

		if _, err := repo.Get("nonexistent-id"); err == nil {
			t.Error("expected error when getting nonexistent response")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResponseRepository(db)
		for _, r := range []*models.TaskResponse{
			newResponse("ws-a", "1", false),
			newResponse("ws-a", "1", true),
			newResponse("ws-a", "2", true),
			newResponse("ws-b", "1", true),
		} {
			if err := repo.Create(r); err != nil {
				t.Fatalf("failed to create response: %v", err)
			}
		}

		tests := []struct {
			name     string
			criteria map[string]any
			expected int
		}{
			{"all", map[string]any{}, 4},
			{"by worksheet", map[string]any{"worksheet": "ws-a"}, 3},
			{"by task", map[string]any{"worksheet": "ws-a", "task_id": "1"}, 2},
			{"correct only", map[string]any{"worksheet": "ws-a", "correct": true}, 2},
			{"incorrect only", map[string]any{"correct": false}, 1},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				responses, err := repo.List(tt.criteria)
				if err != nil {
					t.Fatalf("failed to list: %v", err)
				}
				if len(responses) != tt.expected {
					t.Errorf("expected %d responses, got %d", tt.expected, len(responses))
				}
				for i := 1; i < len(responses); i++ {
					if responses[i].Sequence <= responses[i-1].Sequence {
						t.Error("expected responses in sequence order")
					}
				}
			})
		}
	})

	t.Run("DeleteByWorksheet", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewResponseRepository(db)
		repo.Create(newResponse("ws-a", "1", true))
		repo.Create(newResponse("ws-a", "2", true))
		repo.Create(newResponse("ws-b", "1", true))

		n, err := repo.DeleteByWorksheet("ws-a")
		if err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 deleted, got %d", n)
		}

		remaining, _ := repo.List(nil)
		if len(remaining) != 1 {
			t.Errorf("expected 1 remaining, got %d", len(remaining))
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "task_responses")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestEngineWithSQLiteStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ws, err := models.ParseWorksheet([]byte(`[
		{"task_type": "fill_blank", "task_data": {"correct_answers": ["Paris"]}},
		{"task_type": "short_answer", "task_data": {}}
	]`))
	if err != nil {
		t.Fatalf("failed to parse worksheet: %v", err)
	}

	store := NewProgressStore(db)
	responses := NewResponseRepository(db)
	key := tasks.ProgressKey("", "capitals")

	page := tasks.NewPage(ws.Tasks)
	engine := tasks.NewEngine(tasks.EngineOpts{Surfaces: page, Store: store, Recorder: responses, Key: key, Autosave: true})
	engine.Load(ws.Tasks)

	page.Text("1").SetValue("paris")
	engine.InputChanged("1")
	engine.Check("1")

	restored := tasks.NewEngine(tasks.EngineOpts{Store: store, Key: key})
	restored.Load(ws.Tasks)
	if !restored.Restore() {
		t.Fatal("expected stored progress to restore")
	}
	if restored.Percentage() != 50 {
		t.Errorf("expected 50, got %v", restored.Percentage())
	}

	recorded, err := responses.List(map[string]any{"worksheet": key})
	if err != nil {
		t.Fatalf("failed to list responses: %v", err)
	}
	if len(recorded) != 1 || !recorded[0].IsCorrect {
		t.Errorf("unexpected responses %+v", recorded)
	}
}
