package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/tasks"
)

var _ list.Item = taskItem{}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	position int
	task     models.Task
	marker   tasks.Marker
}

func (i taskItem) FilterValue() string { return i.task.Question }

func (i taskItem) Title() string {
	question := i.task.Question
	if question == "" {
		question = "Task " + i.task.ID
	}
	return fmt.Sprintf("%s %d. %s", markerIcon(i.marker), i.position, question)
}

func (i taskItem) Description() string {
	desc := i.task.Type.Label()
	switch i.marker {
	case tasks.MarkerCorrect:
		desc = fmt.Sprintf("%s • complete", desc)
	case tasks.MarkerIncorrect:
		desc = fmt.Sprintf("%s • try again", desc)
	}
	return desc
}

func markerIcon(m tasks.Marker) string {
	switch m {
	case tasks.MarkerCorrect:
		return "✓"
	case tasks.MarkerIncorrect:
		return "✗"
	default:
		return "•"
	}
}

// taskItems builds list items with the markers currently on the page.
func taskItems(ts []models.Task, page *tasks.Page) []list.Item {
	items := make([]list.Item, len(ts))
	for i, t := range ts {
		items[i] = taskItem{position: i + 1, task: t, marker: page.MarkerOf(t.ID)}
	}
	return items
}
