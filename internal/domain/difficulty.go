package domain

import "fmt"

// Difficulty scale bounds. Every level in the system lives on this scale.
const (
	MinDifficulty    = 1
	MaxDifficulty    = 10
	MediumDifficulty = 5
)

// DifficultyLevel is an immutable 1-10 difficulty value, optionally scoped to
// a category. All arithmetic clamps to the scale instead of overflowing.
type DifficultyLevel struct {
	level    int
	category string
}

// NewDifficultyLevel clamps level into [MinDifficulty, MaxDifficulty].
func NewDifficultyLevel(level int) DifficultyLevel {
	return DifficultyLevel{level: clampLevel(level)}
}

// NewCategoryDifficulty builds a level scoped to a category context.
func NewCategoryDifficulty(level int, category string) DifficultyLevel {
	return DifficultyLevel{level: clampLevel(level), category: category}
}

// MediumLevel is the default starting point when nothing is known.
func MediumLevel() DifficultyLevel {
	return DifficultyLevel{level: MediumDifficulty}
}

func (d DifficultyLevel) Level() int       { return d.level }
func (d DifficultyLevel) Category() string { return d.category }

// AdjustBy returns a new level shifted by delta, clamped to the scale.
func (d DifficultyLevel) AdjustBy(delta int) DifficultyLevel {
	return DifficultyLevel{level: clampLevel(d.level + delta), category: d.category}
}

// Increase steps one level harder.
func (d DifficultyLevel) Increase() DifficultyLevel { return d.AdjustBy(1) }

// Decrease steps one level easier.
func (d DifficultyLevel) Decrease() DifficultyLevel { return d.AdjustBy(-1) }

func (d DifficultyLevel) IsEasy() bool   { return d.level <= 3 }
func (d DifficultyLevel) IsMedium() bool { return d.level >= 4 && d.level <= 6 }
func (d DifficultyLevel) IsHard() bool   { return d.level >= 7 }

// Equals compares levels ignoring category context.
func (d DifficultyLevel) Equals(other DifficultyLevel) bool {
	return d.level == other.level
}

func (d DifficultyLevel) String() string {
	if d.category != "" {
		return fmt.Sprintf("%d/%d (%s)", d.level, MaxDifficulty, d.category)
	}
	return fmt.Sprintf("%d/%d", d.level, MaxDifficulty)
}

func clampLevel(level int) int {
	if level < MinDifficulty {
		return MinDifficulty
	}
	if level > MaxDifficulty {
		return MaxDifficulty
	}
	return level
}
