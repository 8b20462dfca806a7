package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/wsx/internal/formatter"
	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/repositories"
	"github.com/desertthunder/wsx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProgressShow prints the stored progress of a worksheet.
func (r *Runner) ProgressShow(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession(cmd.StringArg("worksheet"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		payload, err := s.store.Get(s.key)
		if err != nil {
			return err
		}
		p, err := models.DecodeProgress(payload)
		if err != nil {
			return err
		}
		return r.writeJSON(p, true)
	}

	engine := r.startEngine(s)
	report := engine.Report(s.worksheet.Title)

	text, err := formatter.ExportToText(report)
	if err != nil {
		return err
	}

	r.writePlainHeader(s.key)
	return r.writePlain("%s", text)
}

// ProgressClear deletes the stored progress of a worksheet and optionally its response history.
func (r *Runner) ProgressClear(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession(cmd.StringArg("worksheet"))
	if err != nil {
		return err
	}

	switch err := s.store.Delete(s.key); {
	case errors.Is(err, shared.ErrProgressNotFound):
		r.writePlainln("No stored progress for %s", s.key)
	case err != nil:
		return err
	default:
		r.logger.Info("progress cleared", "key", s.key)
		r.writePlainln("✓ Cleared progress for %s", s.key)
	}

	if cmd.Bool("responses") {
		n, err := s.responses.DeleteByWorksheet(s.key)
		if err != nil {
			return err
		}
		r.writePlainln("✓ Deleted %d responses", n)
	}
	return nil
}

// ProgressList prints every stored progress key.
func (r *Runner) ProgressList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	entries, err := repositories.NewProgressStore(db).List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		return r.writePlainln("No stored progress")
	}
	for _, e := range entries {
		r.writePlainln("%-40s %6d bytes  %s", e.Key, e.Size, e.UpdatedAt.Local().Format(time.DateTime))
	}
	return nil
}

// Export writes a progress report in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	s, err := r.openSession(cmd.StringArg("worksheet"))
	if err != nil {
		return err
	}
	report := r.startEngine(s).Report(s.worksheet.Title)

	output := cmd.String("output")
	if output == "" {
		data, err := formatter.Export(report, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	path, err := formatter.WriteExport(report, format, output)
	if err != nil {
		return err
	}
	r.logger.Info("report exported", "path", path, "format", format)
	return r.writePlainln("✓ Report written to %s", path)
}

// Responses lists the answer checks recorded for a worksheet.
func (r *Runner) Responses(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession(cmd.StringArg("worksheet"))
	if err != nil {
		return err
	}

	responses, err := s.responses.List(map[string]any{"worksheet": s.key, "task_id": cmd.String("task")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]map[string]any, 0, len(responses))
		for _, resp := range responses {
			out = append(out, map[string]any{
				"id":            resp.ID(),
				"sequence":      resp.Sequence,
				"task_id":       resp.TaskID,
				"task_type":     resp.TaskType,
				"response_data": resp.ResponseData,
				"is_correct":    resp.IsCorrect,
				"submitted_at":  resp.SubmittedAt,
			})
		}
		return r.writeJSON(out, true)
	}

	if len(responses) == 0 {
		return r.writePlainln("No responses recorded for %s", s.key)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d responses)", s.key, len(responses)))
	for _, resp := range responses {
		icon := "✗"
		if resp.IsCorrect {
			icon = "✓"
		}
		r.writePlainln("#%-4d %s task %-4s %-16s %s  %s", resp.Sequence, icon, resp.TaskID, resp.TaskType, resp.ResponseData, resp.SubmittedAt.Local().Format(time.DateTime))
	}
	return nil
}
