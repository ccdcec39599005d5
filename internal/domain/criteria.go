package domain

import (
	"fmt"
	"time"
)

// TimeLimit bounds a session by total wall-clock time and/or per-question
// time. At least one bound must be set. Strict limits are meant to be
// enforced by the caller; lenient ones are advisory.
type TimeLimit struct {
	TotalSeconds       int  `json:"totalSeconds,omitempty"`
	PerQuestionSeconds int  `json:"perQuestionSeconds,omitempty"`
	Strict             bool `json:"strict"`
}

// NewTimeLimit validates that at least one bound is present.
func NewTimeLimit(totalSeconds, perQuestionSeconds int, strict bool) (TimeLimit, error) {
	if totalSeconds <= 0 && perQuestionSeconds <= 0 {
		return TimeLimit{}, ErrInvalidTimeLimit
	}
	if totalSeconds < 0 || perQuestionSeconds < 0 {
		return TimeLimit{}, fmt.Errorf("%w: negative bound", ErrInvalidTimeLimit)
	}
	return TimeLimit{TotalSeconds: totalSeconds, PerQuestionSeconds: perQuestionSeconds, Strict: strict}, nil
}

// Total returns the total bound as a duration, zero if unset.
func (t TimeLimit) Total() time.Duration {
	return time.Duration(t.TotalSeconds) * time.Second
}

// PerQuestion returns the per-question bound as a duration, zero if unset.
func (t TimeLimit) PerQuestion() time.Duration {
	return time.Duration(t.PerQuestionSeconds) * time.Second
}

// GenerationCriteria describes a quiz generation request. Values are
// immutable; the WithX methods derive modified copies.
type GenerationCriteria struct {
	Title              string
	QuestionCount      int
	Template           string
	TargetDifficulty   DifficultyLevel
	Categories         []string
	Tags               []string
	Types              []QuestionType
	TypeDistribution   map[QuestionType]float64 // percentages, sum <= 100
	TimeLimit          *TimeLimit
	BalanceDifficulty  bool
	AllowRepeat        bool
	ExcludeQuestionIDs []string
}

// NewGenerationCriteria builds criteria with the mandatory fields.
func NewGenerationCriteria(title string, questionCount int, target DifficultyLevel) (GenerationCriteria, error) {
	c := GenerationCriteria{
		Title:            title,
		QuestionCount:    questionCount,
		TargetDifficulty: target,
	}
	if err := c.Validate(); err != nil {
		return GenerationCriteria{}, err
	}
	return c, nil
}

// Validate checks count bounds and distribution totals.
func (c GenerationCriteria) Validate() error {
	if c.QuestionCount < 1 || c.QuestionCount > 1000 {
		return fmt.Errorf("%w: question count %d must be in [1,1000]", ErrInvalidCriteria, c.QuestionCount)
	}
	var sum float64
	for qt, pct := range c.TypeDistribution {
		if _, err := ParseQuestionType(string(qt)); err != nil {
			return fmt.Errorf("%w: distribution references %q", ErrInvalidCriteria, qt)
		}
		if pct < 0 {
			return fmt.Errorf("%w: negative distribution share for %s", ErrInvalidCriteria, qt)
		}
		sum += pct
	}
	if sum > 100 {
		return fmt.Errorf("%w: type distribution sums to %.2f%%", ErrInvalidCriteria, sum)
	}
	return nil
}

// WithCategories derives criteria filtered to the given categories.
func (c GenerationCriteria) WithCategories(categories ...string) GenerationCriteria {
	c.Categories = append([]string(nil), categories...)
	return c
}

// WithTags derives criteria filtered to the given tags.
func (c GenerationCriteria) WithTags(tags ...string) GenerationCriteria {
	c.Tags = append([]string(nil), tags...)
	return c
}

// WithTypes derives criteria restricted to the given question types.
func (c GenerationCriteria) WithTypes(types ...QuestionType) GenerationCriteria {
	c.Types = append([]QuestionType(nil), types...)
	return c
}

// WithTypeDistribution derives criteria with per-type percentage targets.
func (c GenerationCriteria) WithTypeDistribution(dist map[QuestionType]float64) GenerationCriteria {
	copied := make(map[QuestionType]float64, len(dist))
	for qt, pct := range dist {
		copied[qt] = pct
	}
	c.TypeDistribution = copied
	return c
}

// WithTimeLimit derives criteria carrying a time limit.
func (c GenerationCriteria) WithTimeLimit(limit TimeLimit) GenerationCriteria {
	c.TimeLimit = &limit
	return c
}

// WithBalancedDifficulty toggles the 50/25/25 bucket draw around the target.
func (c GenerationCriteria) WithBalancedDifficulty(balanced bool) GenerationCriteria {
	c.BalanceDifficulty = balanced
	return c
}

// WithAllowRepeat toggles reuse of previously seen questions.
func (c GenerationCriteria) WithAllowRepeat(allow bool) GenerationCriteria {
	c.AllowRepeat = allow
	return c
}

// WithExclusions derives criteria excluding the given question ids.
func (c GenerationCriteria) WithExclusions(ids ...string) GenerationCriteria {
	c.ExcludeQuestionIDs = append([]string(nil), ids...)
	return c
}

// WithTemplate derives criteria using a named quiz template.
func (c GenerationCriteria) WithTemplate(template string) GenerationCriteria {
	c.Template = template
	return c
}
