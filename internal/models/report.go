package models

import "time"

// WorksheetReport is a flattened progress view of one worksheet, used by exporters.
type WorksheetReport struct {
	Title       string        `json:"title"`
	Key         string        `json:"key"`
	Total       int           `json:"total"`
	Completed   int           `json:"completed"`
	Percentage  float64       `json:"percentage"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []ReportEntry `json:"entries"`
}

// ReportEntry describes one task in a [WorksheetReport].
type ReportEntry struct {
	Position  int      `json:"position"`
	TaskID    string   `json:"task_id"`
	Type      TaskType `json:"task_type"`
	Question  string   `json:"question,omitempty"`
	Completed bool     `json:"completed"`
	Answer    string   `json:"answer,omitempty"` // display form of the current answer
}
