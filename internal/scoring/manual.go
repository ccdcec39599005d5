package scoring

import (
	"fmt"

	"adaptive-quiz-service/internal/domain"
)

// ManualStrategy covers essay and code-completion questions. The algorithmic
// score is a placeholder of zero until a grader supplies a manual percentage
// through submission metadata.
type ManualStrategy struct{}

func (ManualStrategy) Score(q domain.Question, sub domain.Submission) (domain.Score, error) {
	if len(sub.Values) != 1 {
		return domain.Score{}, fmt.Errorf("%w: %s expects exactly 1 text submission, got %d",
			domain.ErrInvalidSubmission, q.Type, len(sub.Values))
	}

	if pct, graded := sub.ManualScore(); graded {
		if pct < 0 || pct > 100 {
			return domain.Score{}, fmt.Errorf("%w: manual score %.2f out of range", domain.ErrInvalidSubmission, pct)
		}
		score, err := domain.NewScore(pct/100*q.Weight, q.Weight)
		if err != nil {
			return domain.Score{}, err
		}
		return score.WithMetadata("manually_graded", true), nil
	}

	score, err := domain.ZeroScore(q.Weight)
	if err != nil {
		return domain.Score{}, err
	}
	return score.WithMetadata("pending_manual_grading", true), nil
}

func (ManualStrategy) Supports(q domain.Question) bool {
	return q.Type.RequiresManualGrading()
}
