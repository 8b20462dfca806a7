package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
)

// ResponseRepository persists [models.TaskResponse] records.
//
// Responses are append-only: there is no update, and deletes remove a worksheet's whole history.
type ResponseRepository struct {
	db *sql.DB
}

// NewResponseRepository creates a new ResponseRepository with the given database connection
func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Record satisfies the engine's recorder interface
func (r *ResponseRepository) Record(resp *models.TaskResponse) error {
	return r.Create(resp)
}

// Create inserts a new [models.TaskResponse] into the database with generated ID and sequence
func (r *ResponseRepository) Create(resp *models.TaskResponse) error {
	if err := resp.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "task_responses")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO task_responses (id, sequence, worksheet, task_id, task_type, response_data, is_correct, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		resp.Worksheet,
		resp.TaskID,
		string(resp.TaskType),
		resp.ResponseData,
		resp.IsCorrect,
		resp.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}

	resp.SetID(id)
	resp.Sequence = sequence
	return nil
}

// Get retrieves a response by ID
func (r *ResponseRepository) Get(id string) (*models.TaskResponse, error) {
	query := `
		SELECT id, sequence, worksheet, task_id, task_type, response_data, is_correct, submitted_at
		FROM task_responses
		WHERE id = ?
	`

	resp, err := scanResponse(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("response not found: %s", id)
	}
	return resp, err
}

// List retrieves responses matching the given criteria in submission order.
//
// Supported criteria: "worksheet" (string), "task_id" (string), "correct" (bool).
func (r *ResponseRepository) List(criteria map[string]any) ([]*models.TaskResponse, error) {
	query := `
		SELECT id, sequence, worksheet, task_id, task_type, response_data, is_correct, submitted_at
		FROM task_responses
		WHERE 1 = 1
	`

	args := []any{}

	if worksheet, ok := criteria["worksheet"].(string); ok && worksheet != "" {
		query += " AND worksheet = ?"
		args = append(args, worksheet)
	}

	if taskID, ok := criteria["task_id"].(string); ok && taskID != "" {
		query += " AND task_id = ?"
		args = append(args, taskID)
	}

	if correct, ok := criteria["correct"].(bool); ok {
		query += " AND is_correct = ?"
		args = append(args, correct)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []*models.TaskResponse
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return responses, nil
}

// DeleteByWorksheet removes every response recorded for a worksheet and returns how many were removed
func (r *ResponseRepository) DeleteByWorksheet(worksheet string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM task_responses WHERE worksheet = ?`, worksheet)
	if err != nil {
		return 0, fmt.Errorf("failed to delete responses: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResponse(row scanner) (*models.TaskResponse, error) {
	var (
		id          string
		taskType    string
		data        sql.NullString
		submittedAt time.Time
		resp        models.TaskResponse
	)

	err := row.Scan(&id, &resp.Sequence, &resp.Worksheet, &resp.TaskID, &taskType, &data, &resp.IsCorrect, &submittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan response: %w", err)
	}

	resp.SetID(id)
	resp.TaskType = models.TaskType(taskType)
	resp.ResponseData = data.String
	resp.SubmittedAt = submittedAt
	return &resp, nil
}
