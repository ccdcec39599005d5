package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/scoring"
)

// Hint penalty tuning: each hint costs 20% of the awarded points, capped at
// a 50% total reduction.
const (
	maxTimeSpent     = 3600 * time.Second
	hintPenaltyStep  = 0.20
	hintPenaltyCap   = 0.50
	shortEssayLength = 20
)

// QuestionAnswer is the immutable grading record for one answered question.
// Re-answering produces a new record, never a mutation.
type QuestionAnswer struct {
	QuestionID string
	Submission domain.Submission
	Score      domain.Score
	Correct    bool
	TimeSpent  time.Duration
	AnsweredAt time.Time
	Validation domain.ValidationResult
	// PendingManualGrading is set for essay/code answers no grader has
	// reviewed yet.
	PendingManualGrading bool
}

// NewQuestionAnswer validates the submission shape, scores it through the
// strategy dispatch, applies the hint penalty, derives correctness and runs
// the soft validation pass. Validation warnings never fail construction;
// shape errors and out-of-range elapsed times do.
func NewQuestionAnswer(scorer *scoring.Scorer, q domain.Question, sub domain.Submission, timeSpent time.Duration, answeredAt time.Time) (QuestionAnswer, error) {
	if timeSpent < 0 || timeSpent > maxTimeSpent {
		return QuestionAnswer{}, fmt.Errorf("%w: %s not in [0s, 1h]", domain.ErrInvalidTimeSpent, timeSpent)
	}
	if err := validateShape(q, sub); err != nil {
		return QuestionAnswer{}, err
	}

	base, err := scorer.Score(q, sub)
	if err != nil {
		return QuestionAnswer{}, err
	}

	score := applyHintPenalty(base, sub.HintsUsed())

	correct := base.IsPerfect()
	pending := false
	if q.Type.RequiresManualGrading() {
		correct = manuallyCorrect(sub)
		_, pending = score.Metadata("pending_manual_grading")
	}

	return QuestionAnswer{
		QuestionID:           q.ID,
		Submission:           sub,
		Score:                score,
		Correct:              correct,
		TimeSpent:            timeSpent,
		AnsweredAt:           answeredAt,
		Validation:           validateQuality(q, sub),
		PendingManualGrading: pending,
	}, nil
}

// applyHintPenalty reduces awarded points by 20% per hint used, capped at
// 50%. The pre-penalty percentage is kept in the score metadata so graders
// can audit the deduction.
func applyHintPenalty(base domain.Score, hintsUsed int) domain.Score {
	if hintsUsed <= 0 || base.Points() == 0 {
		return base
	}
	reduction := hintPenaltyStep * float64(hintsUsed)
	if reduction > hintPenaltyCap {
		reduction = hintPenaltyCap
	}
	penalized, err := domain.NewScore(base.Points()*(1-reduction), base.MaxPoints())
	if err != nil {
		return base
	}
	return penalized.WithMetadata("pre_penalty_percentage", base.Percentage())
}

// validateShape enforces the per-type submission arity and value form.
// Violations are usage errors raised to the caller.
func validateShape(q domain.Question, sub domain.Submission) error {
	if len(sub.Values) == 0 {
		return domain.ErrEmptySubmission
	}
	switch q.Type {
	case domain.SingleChoice:
		if len(sub.Values) != 1 {
			return fmt.Errorf("%w: single choice takes 1 answer, got %d", domain.ErrInvalidSubmission, len(sub.Values))
		}
	case domain.TrueFalse:
		if len(sub.Values) != 1 {
			return fmt.Errorf("%w: true/false takes 1 value, got %d", domain.ErrInvalidSubmission, len(sub.Values))
		}
		if _, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(sub.Values[0]))); err != nil {
			return fmt.Errorf("%w: %q is not a boolean", domain.ErrInvalidSubmission, sub.Values[0])
		}
	case domain.Essay, domain.CodeCompletion:
		if len(sub.Values) != 1 {
			return fmt.Errorf("%w: %s takes 1 text submission, got %d", domain.ErrInvalidSubmission, q.Type, len(sub.Values))
		}
		if strings.TrimSpace(sub.Values[0]) == "" {
			return fmt.Errorf("%w: blank %s submission", domain.ErrInvalidSubmission, q.Type)
		}
	}
	return nil
}

// validateQuality runs the soft, non-raising checks. Unknown answer ids are
// warnings so lenient UIs can still submit; very short essays get flagged
// for the grader.
func validateQuality(q domain.Question, sub domain.Submission) domain.ValidationResult {
	result := domain.OKValidation()
	switch q.Type {
	case domain.SingleChoice, domain.MultipleChoice, domain.DragAndDrop, domain.FillInTheBlank, domain.Matching:
		for _, id := range sub.Values {
			if _, ok := q.AnswerByID(id); !ok {
				result.AddWarning(fmt.Sprintf("answer id %q is not among the question's options", id))
			}
		}
		if q.Type == domain.MultipleChoice && len(sub.Values) > len(q.Answers) {
			result.AddWarning("more selections than available options")
		}
	case domain.Essay:
		if len(strings.TrimSpace(sub.Values[0])) < shortEssayLength {
			result.AddWarning("essay submission is very short")
		}
	case domain.CodeCompletion:
		if !strings.ContainsAny(sub.Values[0], "(){};=") {
			result.AddWarning("submission does not look like code")
		}
	}
	return result
}

// manuallyCorrect reads the grader's verdict from submission metadata.
func manuallyCorrect(sub domain.Submission) bool {
	if v, ok := sub.Metadata["graded_correct"]; ok {
		if b, isBool := v.(bool); isBool {
			return b
		}
	}
	if pct, graded := sub.ManualScore(); graded {
		return pct == 100
	}
	return false
}
