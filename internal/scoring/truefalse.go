package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"adaptive-quiz-service/internal/domain"
)

// TrueFalseStrategy expects exactly one boolean literal and scores it against
// the question's correct option. Scoring is binary.
type TrueFalseStrategy struct{}

func (TrueFalseStrategy) Score(q domain.Question, sub domain.Submission) (domain.Score, error) {
	if len(sub.Values) != 1 {
		return domain.Score{}, fmt.Errorf("%w: true/false expects exactly 1 value, got %d",
			domain.ErrInvalidSubmission, len(sub.Values))
	}
	submitted, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(sub.Values[0])))
	if err != nil {
		return domain.Score{}, fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidSubmission, sub.Values[0])
	}

	truth, ok := questionTruth(q)
	if !ok {
		return domain.ZeroScore(q.Weight)
	}
	return binaryScore(q.Weight, submitted == truth)
}

func (TrueFalseStrategy) Supports(q domain.Question) bool {
	_, ok := questionTruth(q)
	return len(q.Answers) == 2 && ok
}

// questionTruth derives the boolean the correct option represents.
func questionTruth(q domain.Question) (bool, bool) {
	for _, a := range q.Answers {
		if !a.Correct {
			continue
		}
		if v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(a.Content.Text))); err == nil {
			return v, true
		}
	}
	return false, false
}
