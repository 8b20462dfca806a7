// Package models defines the worksheet domain types shared by the engine, storage and UI layers.
//
// The package contains three categories of types:
//
// 1. Worksheet content, immutable once loaded:
//   - [Worksheet] : Titled, ordered list of tasks
//   - [Task] : One exercise with a closed [TaskType] and typed [TaskData]
//   - [MultipleChoiceData], [FillBlankData], [ShortAnswerData], [DragDropData] : Per-type payloads
//
// 2. Learner input and check results:
//   - [Answer] : Current input of a task ([ChoiceAnswer], [TextAnswer], [MatchAnswer])
//   - [ValidationResult] : Outcome of checking one answer
//
// 3. Persisted state:
//   - [PersistedProgress] : Serialized completion set plus answer snapshot
//   - [TaskResponse] : One recorded check, stored for later review
//   - [WorksheetReport] : Flattened view of progress used by exporters
//
// Task payloads are parsed and validated when a worksheet is loaded; a malformed payload is a load error,
// never a failure discovered while checking an answer.
package models
