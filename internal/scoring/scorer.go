// Package scoring maps question types to scoring strategies. The strategy
// table is built explicitly at construction time and injected where needed;
// there is no process-wide registry.
package scoring

import (
	"adaptive-quiz-service/internal/domain"
)

// Strategy scores one submission against one question.
type Strategy interface {
	Score(q domain.Question, sub domain.Submission) (domain.Score, error)
	// Supports reports whether the strategy can meaningfully score q.
	Supports(q domain.Question) bool
}

// Scorer routes a submission to the strategy registered for the question's
// type, falling back to exact-match scoring for anything unregistered.
type Scorer struct {
	strategies map[domain.QuestionType]Strategy
	fallback   Strategy
}

// NewScorer installs the built-in strategies. Drag-and-drop, fill-in-the-blank
// and matching reuse the multi-select comparison over answer-id sets.
func NewScorer() *Scorer {
	single := SingleChoiceStrategy{}
	multi := MultiChoiceStrategy{}
	manual := ManualStrategy{}
	return &Scorer{
		strategies: map[domain.QuestionType]Strategy{
			domain.SingleChoice:   single,
			domain.MultipleChoice: multi,
			domain.TrueFalse:      TrueFalseStrategy{},
			domain.DragAndDrop:    multi,
			domain.FillInTheBlank: multi,
			domain.Matching:       multi,
			domain.Essay:          manual,
			domain.CodeCompletion: manual,
		},
		fallback: single,
	}
}

// WithStrategy returns a copy of the scorer with qType routed to s.
func (sc *Scorer) WithStrategy(qType domain.QuestionType, s Strategy) *Scorer {
	strategies := make(map[domain.QuestionType]Strategy, len(sc.strategies)+1)
	for t, existing := range sc.strategies {
		strategies[t] = existing
	}
	strategies[qType] = s
	return &Scorer{strategies: strategies, fallback: sc.fallback}
}

// Score dispatches to the question type's strategy. An empty submission is
// an input error regardless of type.
func (sc *Scorer) Score(q domain.Question, sub domain.Submission) (domain.Score, error) {
	if len(sub.Values) == 0 {
		return domain.Score{}, domain.ErrEmptySubmission
	}
	strategy, ok := sc.strategies[q.Type]
	if !ok {
		strategy = sc.fallback
	}
	return strategy.Score(q, sub)
}

// StrategyFor exposes the routed strategy, mainly for Supports checks.
func (sc *Scorer) StrategyFor(qType domain.QuestionType) Strategy {
	if strategy, ok := sc.strategies[qType]; ok {
		return strategy
	}
	return sc.fallback
}

// binaryScore awards the full weight or nothing.
func binaryScore(weight float64, correct bool) (domain.Score, error) {
	if correct {
		return domain.PerfectScore(weight)
	}
	return domain.ZeroScore(weight)
}
