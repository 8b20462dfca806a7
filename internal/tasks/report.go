package tasks

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/wsx/internal/models"
)

// Report flattens the current progress into a [models.WorksheetReport].
func (e *Engine) Report(title string) *models.WorksheetReport {
	r := &models.WorksheetReport{
		Title:       title,
		Key:         e.key,
		Total:       len(e.tasks),
		Completed:   e.CompletedCount(),
		Percentage:  e.Percentage(),
		GeneratedAt: e.now(),
		Entries:     make([]models.ReportEntry, 0, len(e.tasks)),
	}

	for i, t := range e.tasks {
		entry := models.ReportEntry{
			Position:  i + 1,
			TaskID:    t.ID,
			Type:      t.Type,
			Question:  t.Question,
			Completed: e.IsCompleted(t.ID),
		}
		if answer, err := e.Answer(t); err == nil {
			entry.Answer = DescribeAnswer(t, answer)
		}
		r.Entries = append(r.Entries, entry)
	}
	return r
}

// DescribeAnswer renders answer for display. Choice answers use the option text when the task has one.
func DescribeAnswer(task models.Task, answer models.Answer) string {
	switch a := answer.(type) {
	case models.ChoiceAnswer:
		if !a.Selected {
			return ""
		}
		if data, ok := task.Data.(models.MultipleChoiceData); ok && a.Index >= 0 && a.Index < len(data.Options) {
			return data.Options[a.Index]
		}
		return fmt.Sprintf("option %d", a.Index+1)
	case models.TextAnswer:
		return a.Text
	case models.MatchAnswer:
		pairs := make([]string, 0, len(a))
		for _, item := range slices.Sorted(maps.Keys(a)) {
			pairs = append(pairs, item+" → "+a[item])
		}
		return strings.Join(pairs, "; ")
	default:
		return ""
	}
}
