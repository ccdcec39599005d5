// Package difficulty estimates question difficulty from content heuristics
// and recalibrates it from observed performance.
package difficulty

import (
	"strings"
	"time"

	"adaptive-quiz-service/internal/domain"
)

// Heuristic caps and tuning constants.
const (
	baseLevel        = 5
	contentBonusCap  = 3
	answerBonusCap   = 2
	tooEasyRate      = 0.8
	tooHardRate      = 0.4
	fastTimeFactor   = 0.7
	slowTimeFactor   = 1.5
	longAnswerLength = 50
)

// expectedTimeByLevel maps a difficulty level to the time a typical learner
// needs, 30s at level 1 rising to 300s at level 10.
var expectedTimeByLevel = map[int]time.Duration{
	1:  30 * time.Second,
	2:  60 * time.Second,
	3:  90 * time.Second,
	4:  120 * time.Second,
	5:  150 * time.Second,
	6:  180 * time.Second,
	7:  210 * time.Second,
	8:  240 * time.Second,
	9:  270 * time.Second,
	10: 300 * time.Second,
}

// typeOffsets is the fixed per-type complexity contribution.
var typeOffsets = map[domain.QuestionType]int{
	domain.Essay:          3,
	domain.CodeCompletion: 3,
	domain.Matching:       2,
	domain.DragAndDrop:    2,
	domain.FillInTheBlank: 1,
	domain.MultipleChoice: 1,
	domain.SingleChoice:   0,
	domain.TrueFalse:      -1,
}

// technicalKeywords raise the content-complexity estimate when present.
var technicalKeywords = []string{
	"algorithm", "complexity", "recursion", "asynchronous", "concurrency",
	"polymorphism", "normalization", "derivative", "integral", "theorem",
}

// Attempt is one historical answer to a question, as supplied by the
// user-performance history collaborator.
type Attempt struct {
	QuestionID string
	Correct    bool
	TimeSpent  time.Duration
}

// PerformanceSummary is the externally supplied profile of a learner.
type PerformanceSummary struct {
	SkillLevel      int     // 1-10
	Confidence      float64 // 0-1
	ImprovementRate float64 // negative when regressing
	HasData         bool
}

// Range is a difficulty window for question selection.
type Range struct {
	Min    domain.DifficultyLevel
	Max    domain.DifficultyLevel
	Target domain.DifficultyLevel
}

// Calculator holds the tuning knobs; the zero value is not usable, build it
// with NewCalculator.
type Calculator struct {
	keywords []string
}

func NewCalculator() *Calculator {
	return &Calculator{keywords: technicalKeywords}
}

// EstimateInitial derives a starting difficulty for a question nobody has
// answered yet: base 5 plus bounded contributions from content, answers and
// question type, clamped to the scale.
func (c *Calculator) EstimateInitial(q domain.Question) domain.DifficultyLevel {
	level := baseLevel
	level += c.contentComplexity(q)
	level += answerComplexity(q)
	level += typeOffsets[q.Type]
	return domain.NewDifficultyLevel(level)
}

func (c *Calculator) contentComplexity(q domain.Question) int {
	bonus := 0
	words := len(strings.Fields(q.Content.Text))
	switch {
	case words > 100:
		bonus += 2
	case words > 50:
		bonus++
	}
	if q.Content.Kind == domain.ContentCode || q.Content.Kind == domain.ContentLaTeX {
		bonus++
	}
	lower := strings.ToLower(q.Content.Text)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			bonus++
		}
	}
	if bonus > contentBonusCap {
		bonus = contentBonusCap
	}
	return bonus
}

func answerComplexity(q domain.Question) int {
	if len(q.Answers) == 0 {
		return 0
	}
	bonus := 0
	if len(q.Answers) > 4 {
		bonus++
	}
	total := 0
	for _, a := range q.Answers {
		total += len(a.Content.Text)
	}
	if total/len(q.Answers) > longAnswerLength {
		bonus++
	}
	if bonus > answerBonusCap {
		bonus = answerBonusCap
	}
	return bonus
}

// AdjustFromPerformance recalculates a question's difficulty from recent
// attempts. High success rates or suspiciously fast answers push the level
// up; low success rates or slow answers pull it down. Attempts for other
// questions are ignored; with no matching attempts the level is unchanged.
func (c *Calculator) AdjustFromPerformance(q domain.Question, attempts []Attempt) domain.DifficultyLevel {
	correct, count := 0, 0
	var totalTime time.Duration
	for _, a := range attempts {
		if a.QuestionID != q.ID {
			continue
		}
		count++
		if a.Correct {
			correct++
		}
		totalTime += a.TimeSpent
	}
	if count == 0 {
		return q.Difficulty
	}

	successRate := float64(correct) / float64(count)
	avgTime := totalTime / time.Duration(count)
	expected := ExpectedTime(q.Difficulty)

	adjustment := 0
	if successRate > tooEasyRate {
		adjustment++
	} else if successRate < tooHardRate {
		adjustment--
	}
	if avgTime < time.Duration(float64(expected)*fastTimeFactor) {
		adjustment++
	} else if avgTime > time.Duration(float64(expected)*slowTimeFactor) {
		adjustment--
	}
	return q.Difficulty.AdjustBy(adjustment)
}

// Personalized derives a starting difficulty for a learner from their
// performance summary. Without data the medium default stands.
func (c *Calculator) Personalized(summary PerformanceSummary) domain.DifficultyLevel {
	if !summary.HasData {
		return domain.MediumLevel()
	}
	level := summary.SkillLevel
	if summary.Confidence > 0.8 {
		level++
	} else if summary.Confidence < 0.4 {
		level--
	}
	if summary.ImprovementRate > 0.1 {
		level++
	} else if summary.ImprovementRate < -0.1 {
		level--
	}
	return domain.NewDifficultyLevel(level)
}

// RecommendNext applies the progressive-learning rule: sustained success
// escalates, struggling de-escalates, everything else holds steady.
func (c *Calculator) RecommendNext(current domain.DifficultyLevel, successRate float64, consecutiveSuccesses int) domain.DifficultyLevel {
	switch {
	case successRate >= 0.9 && consecutiveSuccesses >= 5:
		return current.AdjustBy(2)
	case successRate >= 0.8 && consecutiveSuccesses >= 3:
		return current.AdjustBy(1)
	case successRate < 0.3:
		return current.AdjustBy(-2)
	case successRate < 0.5:
		return current.AdjustBy(-1)
	default:
		return current
	}
}

// OptimalRange builds a selection window around target. Narrow quizzes get a
// tight window so a handful of questions stays on-level.
func (c *Calculator) OptimalRange(target domain.DifficultyLevel, questionCount int) Range {
	width := 3
	switch {
	case questionCount <= 5:
		width = 1
	case questionCount <= 10:
		width = 2
	}
	return Range{
		Min:    target.AdjustBy(-width),
		Max:    target.AdjustBy(width),
		Target: target,
	}
}

// ExpectedTime looks up how long a question at the given level should take.
func ExpectedTime(level domain.DifficultyLevel) time.Duration {
	return expectedTimeByLevel[level.Level()]
}
