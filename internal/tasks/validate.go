package tasks

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/shared"
)

const (
	msgCorrect         = "Correct!"
	msgTryAgain        = "Incorrect. Try again."
	msgShortGood       = "Good answer! Remember to check with your teacher."
	msgShortMore       = "Please provide a more detailed answer."
	msgAllMatches      = "Perfect! All matches are correct."
	msgPartialMatches  = "%d out of %d matches are correct."
	msgUnknownTaskType = "Unknown task type."
	msgCheckError      = "Error checking answer. Please try again."

	// shortAnswerMinLength is exclusive: an answer needs more characters than this.
	shortAnswerMinLength = 10
)

// Validate checks answer against task. It has no side effects.
//
// An unknown task type yields an incorrect result. A payload or answer that does not match the task type is an error.
func Validate(task models.Task, answer models.Answer) (models.ValidationResult, error) {
	switch task.Type {
	case models.MultipleChoice:
		data, ok := task.Data.(models.MultipleChoiceData)
		if !ok {
			return models.ValidationResult{}, dataMismatch(task)
		}
		a, ok := answer.(models.ChoiceAnswer)
		if !ok {
			return models.ValidationResult{}, answerMismatch(task, answer)
		}
		return validateChoice(data, a), nil
	case models.FillBlank:
		data, ok := task.Data.(models.FillBlankData)
		if !ok {
			return models.ValidationResult{}, dataMismatch(task)
		}
		a, ok := answer.(models.TextAnswer)
		if !ok {
			return models.ValidationResult{}, answerMismatch(task, answer)
		}
		return validateBlank(data, a), nil
	case models.ShortAnswer:
		data, ok := task.Data.(models.ShortAnswerData)
		if !ok {
			return models.ValidationResult{}, dataMismatch(task)
		}
		a, ok := answer.(models.TextAnswer)
		if !ok {
			return models.ValidationResult{}, answerMismatch(task, answer)
		}
		return validateShort(data, a), nil
	case models.DragDrop:
		data, ok := task.Data.(models.DragDropData)
		if !ok {
			return models.ValidationResult{}, dataMismatch(task)
		}
		a, ok := answer.(models.MatchAnswer)
		if !ok {
			return models.ValidationResult{}, answerMismatch(task, answer)
		}
		return validateMatches(data, a), nil
	default:
		return models.ValidationResult{IsCorrect: false, Feedback: msgUnknownTaskType}, nil
	}
}

func validateChoice(data models.MultipleChoiceData, a models.ChoiceAnswer) models.ValidationResult {
	correct := a.Selected && a.Index == data.CorrectAnswer
	want := data.CorrectAnswer
	return models.ValidationResult{
		IsCorrect:     correct,
		Feedback:      explain(data.Explanation, correct),
		CorrectAnswer: &want,
	}
}

func validateBlank(data models.FillBlankData, a models.TextAnswer) models.ValidationResult {
	text := strings.TrimSpace(a.Text)
	var correct bool
	if data.CaseSensitive {
		correct = slices.Contains(data.CorrectAnswers, text)
	} else {
		correct = slices.ContainsFunc(data.CorrectAnswers, func(ca string) bool {
			return strings.EqualFold(ca, text)
		})
	}
	return models.ValidationResult{
		IsCorrect:      correct,
		Feedback:       explain(data.Explanation, correct),
		CorrectAnswers: slices.Clone(data.CorrectAnswers),
	}
}

func validateShort(data models.ShortAnswerData, a models.TextAnswer) models.ValidationResult {
	correct := utf8.RuneCountInString(strings.TrimSpace(a.Text)) > shortAnswerMinLength
	feedback := msgShortMore
	if correct {
		feedback = msgShortGood
	}
	return models.ValidationResult{
		IsCorrect:    correct,
		Feedback:     feedback,
		SampleAnswer: data.SampleAnswer,
	}
}

func validateMatches(data models.DragDropData, a models.MatchAnswer) models.ValidationResult {
	matched := 0
	for item, target := range data.CorrectMatches {
		if placed, ok := a[item]; ok && placed == target {
			matched++
		}
	}
	total := len(data.CorrectMatches)

	res := models.ValidationResult{
		IsCorrect:      matched == total,
		Feedback:       msgAllMatches,
		CorrectMatches: data.CorrectMatches,
		Matched:        matched,
		Required:       total,
	}
	if !res.IsCorrect {
		res.Feedback = fmt.Sprintf(msgPartialMatches, matched, total)
	}
	return res
}

// explain prefers the author's explanation over the generic verdict.
func explain(explanation string, correct bool) string {
	switch {
	case explanation != "":
		return explanation
	case correct:
		return msgCorrect
	default:
		return msgTryAgain
	}
}

func dataMismatch(task models.Task) error {
	return fmt.Errorf("%w: task %s has %T payload for type %s", shared.ErrInvalidTask, task.ID, task.Data, task.Type)
}

func answerMismatch(task models.Task, answer models.Answer) error {
	return fmt.Errorf("%w: task %s of type %s got %T", shared.ErrAnswerMismatch, task.ID, task.Type, answer)
}
