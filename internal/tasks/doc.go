// Package tasks checks worksheet answers and tracks learner progress.
//
// # Engine
//
// [Engine] owns an ordered task list and the set of tasks currently judged correct:
//
//  1. [Engine.Check] : read the answer from the task's input, validate it, show feedback and update progress
//     - A later wrong answer removes a task from the completion set
//     - Failures while checking show a generic error and never escape the engine
//
//  2. [Engine.Reset] : clear input, feedback and marker of a task
//
//  3. [Engine.Save] / [Engine.Restore] : persist a snapshot under the worksheet key
//     - Malformed payloads are logged and skipped
//     - Unknown task ids are dropped on restore
//
// [Validate] is the pure per-type rule used by Check.
//
// # Surfaces
//
// The engine never renders anything itself. Hosts implement [Surfaces] and every getter may return nil when the
// host has no such element. [Page] is the in-memory host used by the CLI and the TUI; [Board] holds drag-and-drop
// placement for matching tasks.
//
// # Storage
//
// [Store] is a key/value store (repositories.ProgressStore in production) and [Recorder] receives one
// [models.TaskResponse] per check.
package tasks
