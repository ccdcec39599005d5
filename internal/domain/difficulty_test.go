package domain_test

import (
	"testing"

	"adaptive-quiz-service/internal/domain"
)

func TestDifficultyClampsOnConstruction(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-5, 1}, {0, 1}, {1, 1}, {5, 5}, {10, 10}, {11, 10}, {1000, 10},
	}
	for _, tc := range cases {
		got := domain.NewDifficultyLevel(tc.in).Level()
		if got != tc.want {
			t.Fatalf("NewDifficultyLevel(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAdjustByNeverLeavesScale(t *testing.T) {
	start := domain.NewDifficultyLevel(5)
	for _, delta := range []int{-100, -10, -1, 0, 1, 3, 10, 100} {
		level := start.AdjustBy(delta).Level()
		if level < domain.MinDifficulty || level > domain.MaxDifficulty {
			t.Fatalf("AdjustBy(%d) produced out-of-scale level %d", delta, level)
		}
	}
	if got := domain.NewDifficultyLevel(10).Increase().Level(); got != 10 {
		t.Fatalf("Increase at ceiling = %d, want 10", got)
	}
	if got := domain.NewDifficultyLevel(1).Decrease().Level(); got != 1 {
		t.Fatalf("Decrease at floor = %d, want 1", got)
	}
}

func TestDifficultyPredicates(t *testing.T) {
	if !domain.NewDifficultyLevel(2).IsEasy() {
		t.Fatal("level 2 should be easy")
	}
	if !domain.NewDifficultyLevel(5).IsMedium() {
		t.Fatal("level 5 should be medium")
	}
	if !domain.NewDifficultyLevel(9).IsHard() {
		t.Fatal("level 9 should be hard")
	}
	if domain.NewDifficultyLevel(4).IsEasy() || domain.NewDifficultyLevel(7).IsMedium() {
		t.Fatal("band boundaries misplaced")
	}
}

func TestCategoryDifficultyKeepsContext(t *testing.T) {
	level := domain.NewCategoryDifficulty(12, "algebra")
	if level.Level() != 10 {
		t.Fatalf("expected clamp to 10, got %d", level.Level())
	}
	if level.Category() != "algebra" {
		t.Fatalf("expected category to survive, got %q", level.Category())
	}
	if adjusted := level.AdjustBy(-3); adjusted.Category() != "algebra" {
		t.Fatalf("AdjustBy dropped category: %q", adjusted.Category())
	}
}
