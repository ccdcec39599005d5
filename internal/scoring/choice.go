package scoring

import (
	"fmt"

	"adaptive-quiz-service/internal/domain"
)

// SingleChoiceStrategy compares exactly one submitted answer id against the
// question's single correct option. Scoring is binary.
type SingleChoiceStrategy struct{}

func (SingleChoiceStrategy) Score(q domain.Question, sub domain.Submission) (domain.Score, error) {
	if len(sub.Values) != 1 {
		return domain.Score{}, fmt.Errorf("%w: single choice expects exactly 1 answer, got %d",
			domain.ErrInvalidSubmission, len(sub.Values))
	}
	answer, ok := q.AnswerByID(sub.Values[0])
	if !ok {
		// Unknown ids score zero; the answer record surfaces them as warnings.
		return domain.ZeroScore(q.Weight)
	}
	return binaryScore(q.Weight, answer.Correct)
}

func (SingleChoiceStrategy) Supports(q domain.Question) bool {
	return len(q.Answers) >= 2 && q.CorrectAnswerCount() == 1
}

// MultiChoiceStrategy scores a submitted answer-id set against the correct
// set with the partial-credit formula
// max(0, correct_selected - incorrect_selected) / correct_total.
// Over-selection penalizes; the result never drops below zero.
type MultiChoiceStrategy struct{}

func (MultiChoiceStrategy) Score(q domain.Question, sub domain.Submission) (domain.Score, error) {
	correctTotal := q.CorrectAnswerCount()
	if correctTotal == 0 {
		return domain.ZeroScore(q.Weight)
	}

	seen := make(map[string]bool, len(sub.Values))
	correctSelected, incorrectSelected := 0, 0
	for _, id := range sub.Values {
		if seen[id] {
			continue
		}
		seen[id] = true
		answer, ok := q.AnswerByID(id)
		if !ok {
			// Unknown ids neither credit nor penalize here; they are
			// reported as validation warnings on the answer record.
			continue
		}
		if answer.Correct {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}

	net := correctSelected - incorrectSelected
	if net < 0 {
		net = 0
	}
	fraction := float64(net) / float64(correctTotal)
	return domain.NewScore(fraction*q.Weight, q.Weight)
}

func (MultiChoiceStrategy) Supports(q domain.Question) bool {
	return len(q.Answers) >= 2 && q.CorrectAnswerCount() >= 1
}
