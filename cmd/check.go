package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/wsx/internal/formatter"
	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
	"github.com/desertthunder/wsx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// checkOutput is the JSON shape of a check.
type checkOutput struct {
	TaskID     string                  `json:"task_id"`
	Result     models.ValidationResult `json:"result"`
	Completed  int                     `json:"completed"`
	Total      int                     `json:"total"`
	Percentage float64                 `json:"percentage"`
}

// Check enters an answer for one task, checks it through the engine and saves progress.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession(cmd.StringArg("worksheet"))
	if err != nil {
		return err
	}
	engine := r.startEngine(s)

	id := cmd.String("task")
	task, ok := engine.Task(id)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	if err := enterAnswer(s.page, task, cmd.String("answer"), cmd.StringSlice("match")); err != nil {
		return err
	}
	engine.InputChanged(id)

	result, _ := engine.Check(id)
	if !r.config.Progress.Autosave {
		if err := engine.Save(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrStorageFailed, err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(checkOutput{
			TaskID:     id,
			Result:     result,
			Completed:  engine.CompletedCount(),
			Total:      len(engine.Tasks()),
			Percentage: engine.Percentage(),
		}, true)
	}

	fb, _ := s.page.FeedbackOf(id)
	icon := "✗"
	if result.IsCorrect {
		icon = "✓"
	}
	r.writePlainln("%s %s", icon, fb.Heading)
	r.writePlainln("  %s", fb.Message)
	r.writePlainln("Progress: %s (%d/%d)", formatter.FormatPercentage(engine.Percentage()), engine.CompletedCount(), len(engine.Tasks()))
	return nil
}

// enterAnswer writes a command-line answer into the task's input surface.
func enterAnswer(page *tasks.Page, task models.Task, answer string, matches []string) error {
	switch task.Type {
	case models.MultipleChoice:
		idx, err := parseChoice(task, answer)
		if err != nil {
			return err
		}
		page.Choice(task.ID).Select(idx)
	case models.FillBlank, models.ShortAnswer:
		page.Text(task.ID).SetValue(answer)
	case models.DragDrop:
		if len(matches) == 0 {
			return fmt.Errorf("%w: --match is required for matching tasks", shared.ErrMissingArgument)
		}
		board := page.Board(task.ID)
		board.ReturnAll()
		for _, m := range matches {
			item, target, ok := strings.Cut(m, "=")
			if !ok {
				return fmt.Errorf("%w: --match %q must be item=target", shared.ErrInvalidFlag, m)
			}
			if !board.Place(strings.TrimSpace(item), strings.TrimSpace(target)) {
				return fmt.Errorf("%w: cannot place %q on %q", shared.ErrInvalidArgument, item, target)
			}
		}
	default:
		return fmt.Errorf("%w: %q", shared.ErrUnknownTaskType, task.Type)
	}
	return nil
}

// parseChoice accepts a 1-based option number or the option text.
func parseChoice(task models.Task, answer string) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return 0, fmt.Errorf("%w: --answer is required for multiple choice tasks", shared.ErrMissingArgument)
	}

	data, _ := task.Data.(models.MultipleChoiceData)
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || (len(data.Options) > 0 && n > len(data.Options)) {
			return 0, fmt.Errorf("%w: option %d does not exist", shared.ErrInvalidArgument, n)
		}
		return n - 1, nil
	}

	for i, opt := range data.Options {
		if strings.EqualFold(opt, answer) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not one of the options", shared.ErrInvalidArgument, answer)
}
