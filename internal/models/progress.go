package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/wsx/internal/shared"
)

// PersistedProgress is the stored snapshot of a worksheet session.
//
// Timestamp is in Unix milliseconds. Answers holds the raw JSON value of every non-empty answer, keyed by task id.
type PersistedProgress struct {
	Timestamp int64                      `json:"timestamp"`
	Completed []string                   `json:"completed"`
	Answers   map[string]json.RawMessage `json:"answers"`
}

// DecodeProgress parses a stored payload. Any structural problem is reported as [shared.ErrMalformedPayload].
func DecodeProgress(payload []byte) (*PersistedProgress, error) {
	if trimmed := bytes.TrimSpace(payload); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: payload is not an object", shared.ErrMalformedPayload)
	}

	var p PersistedProgress
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedPayload, err)
	}
	return &p, nil
}

// Encode serializes the snapshot.
func (p *PersistedProgress) Encode() ([]byte, error) {
	if p.Completed == nil {
		p.Completed = []string{}
	}
	if p.Answers == nil {
		p.Answers = map[string]json.RawMessage{}
	}
	return json.Marshal(p)
}

// SavedAt converts Timestamp to a [time.Time].
func (p *PersistedProgress) SavedAt() time.Time {
	return time.UnixMilli(p.Timestamp)
}
