// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
)

// MemoryStore is an in-memory progress store
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	Writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[key]
	if !ok {
		return nil, shared.ErrProgressNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (s *MemoryStore) Put(key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), payload...)
	s.Writes++
	return nil
}

// Seed stores payload under key without counting a write
func (s *MemoryStore) Seed(key, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = []byte(payload)
}

// FailingStore returns Err from every call
type FailingStore struct {
	Err error
}

func (s FailingStore) Get(string) ([]byte, error) { return nil, s.err() }
func (s FailingStore) Put(string, []byte) error   { return s.err() }

func (s FailingStore) err() error {
	if s.Err == nil {
		return errors.New("storage unavailable")
	}
	return s.Err
}

// MemoryRecorder collects recorded responses
type MemoryRecorder struct {
	Responses []*models.TaskResponse
	Err       error
}

func (r *MemoryRecorder) Record(resp *models.TaskResponse) error {
	if r.Err != nil {
		return r.Err
	}
	r.Responses = append(r.Responses, resp)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// WriteFile writes content to path, failing the test on error
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

// SampleWorksheet is a four task worksheet covering every task type
const SampleWorksheet = `{
  "title": "Fractions Review",
  "tasks": [
    {"id": 1, "task_type": "multiple_choice", "question": "Which is largest?", "order_index": 0,
     "task_data": {"options": ["1/2", "3/4", "2/3"], "correct_answer": 1, "explanation": "3/4 is 0.75."}},
    {"id": 2, "task_type": "fill_blank", "question": "1/2 + 1/2 = ___", "order_index": 1,
     "task_data": {"correct_answers": ["1", "one"], "case_sensitive": false}},
    {"id": 3, "task_type": "short_answer", "question": "Explain equivalent fractions.", "order_index": 2,
     "task_data": {"sample_answer": "Fractions naming the same amount."}},
    {"id": 4, "task_type": "drag_drop", "question": "Match each fraction to its decimal.", "order_index": 3,
     "task_data": {"correct_matches": {"1/2": "0.5", "1/4": "0.25"}}}
  ]
}`

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}
