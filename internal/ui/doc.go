// Package ui implements an interactive terminal worksheet using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [TaskListView] : Browse tasks with their correct/incorrect markers
//  2. [TaskView] : Answer one task and check it
//
// The (view) [Model] owns a tasks.Engine and renders the tasks.Page the engine writes feedback into.
// Stored progress is restored synchronously when the model is built, and every edit is reported to the engine
// so the saved snapshot always holds the latest input.
//
// Matching tasks are played with the keyboard: space picks up an item, tab moves between the tray and the
// targets, and enter drops the item on the highlighted target.
package ui
