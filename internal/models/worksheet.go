package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/wsx/internal/shared"
	"gopkg.in/yaml.v3"
)

// Worksheet is an ordered set of tasks under a title.
type Worksheet struct {
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Slug returns the title in a form usable as a storage key suffix.
func (w *Worksheet) Slug() string {
	if slug := shared.Slugify(w.Title); slug != "" {
		return slug
	}
	return "untitled"
}

// Task looks up a task by id.
func (w *Worksheet) Task(id string) (Task, bool) {
	for _, t := range w.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// ParseWorksheet decodes a JSON worksheet. Both `{"title": ..., "tasks": [...]}` and a bare task array are accepted.
//
// Tasks without an id get their 1-based position in the file. Tasks are ordered by order_index, keeping file order for ties.
func ParseWorksheet(data []byte) (*Worksheet, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", shared.ErrInvalidWorksheet)
	}

	var ws Worksheet
	if data[0] == '[' {
		if err := json.Unmarshal(data, &ws.Tasks); err != nil {
			return nil, wrapWorksheetErr(err)
		}
	} else if err := json.Unmarshal(data, &ws); err != nil {
		return nil, wrapWorksheetErr(err)
	}

	seen := make(map[string]bool, len(ws.Tasks))
	for i := range ws.Tasks {
		if ws.Tasks[i].ID == "" {
			ws.Tasks[i].ID = strconv.Itoa(i + 1)
		}
		if seen[ws.Tasks[i].ID] {
			return nil, fmt.Errorf("%w: duplicate task id %q", shared.ErrInvalidWorksheet, ws.Tasks[i].ID)
		}
		seen[ws.Tasks[i].ID] = true
	}

	sort.SliceStable(ws.Tasks, func(i, j int) bool {
		return ws.Tasks[i].OrderIndex < ws.Tasks[j].OrderIndex
	})

	ws.Title = strings.TrimSpace(ws.Title)
	return &ws, nil
}

// ParseWorksheetYAML decodes a YAML worksheet with the same shape as [ParseWorksheet].
func ParseWorksheetYAML(data []byte) (*Worksheet, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidWorksheet, err)
	}

	converted, err := json.Marshal(stringKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidWorksheet, err)
	}
	return ParseWorksheet(converted)
}

// LoadWorksheet reads a worksheet file; ".yaml" and ".yml" files are parsed as YAML, everything else as JSON.
//
// A missing title defaults to the file name without its extension.
func LoadWorksheet(path string) (*Worksheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}

	var ws *Worksheet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		ws, err = ParseWorksheetYAML(data)
	default:
		ws, err = ParseWorksheet(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if ws.Title == "" {
		ws.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ws, nil
}

// wrapWorksheetErr keeps task level sentinels reachable through errors.Is.
func wrapWorksheetErr(err error) error {
	return fmt.Errorf("%w: %w", shared.ErrInvalidWorksheet, err)
}

// stringKeys converts YAML maps with non-string keys (e.g. numeric item names) into JSON-compatible maps.
func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, val := range v {
			v[k] = stringKeys(val)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case []any:
		for i := range v {
			v[i] = stringKeys(v[i])
		}
		return v
	default:
		return v
	}
}
