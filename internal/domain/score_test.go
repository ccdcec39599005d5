package domain_test

import (
	"errors"
	"math"
	"testing"

	"adaptive-quiz-service/internal/domain"
)

func TestNewScoreDerivesPercentage(t *testing.T) {
	score, err := domain.NewScore(2, 3)
	if err != nil {
		t.Fatalf("new score: %v", err)
	}
	if score.Percentage() != 66.67 {
		t.Fatalf("percentage = %.4f, want 66.67", score.Percentage())
	}
}

func TestNewScoreRejectsBadInputs(t *testing.T) {
	if _, err := domain.NewScore(-1, 10); !errors.Is(err, domain.ErrInvalidScore) {
		t.Fatalf("negative points: got %v", err)
	}
	if _, err := domain.NewScore(1, 0); !errors.Is(err, domain.ErrInvalidScore) {
		t.Fatalf("zero max: got %v", err)
	}
}

func TestReconstructScoreEnforcesConsistency(t *testing.T) {
	if _, err := domain.ReconstructScore(2, 3, 66.67); err != nil {
		t.Fatalf("consistent reconstruction rejected: %v", err)
	}
	if _, err := domain.ReconstructScore(2, 3, 70); !errors.Is(err, domain.ErrInvalidScore) {
		t.Fatalf("inconsistent percentage accepted: %v", err)
	}
}

func TestCombineSumsAndRecomputes(t *testing.T) {
	a, _ := domain.NewScore(100, 100)
	b, _ := domain.NewScore(0, 100)
	c, _ := domain.NewScore(100, 100)

	combined := a.Combine(b).Combine(c)
	if combined.Points() != 200 || combined.MaxPoints() != 300 {
		t.Fatalf("combined = %s", combined)
	}
	if combined.Percentage() != 66.67 {
		t.Fatalf("combined percentage = %.4f, want 66.67", combined.Percentage())
	}
}

func TestCombineMergesBreakdowns(t *testing.T) {
	algebra, _ := domain.NewScore(1, 2)
	geometry, _ := domain.NewScore(2, 2)
	a, _ := domain.NewScore(1, 2)
	a = a.WithBreakdown(map[string]domain.Score{"algebra": algebra})
	b, _ := domain.NewScore(2, 2)
	b = b.WithBreakdown(map[string]domain.Score{"geometry": geometry})

	combined := a.Combine(b)
	breakdown := combined.Breakdown()
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(breakdown))
	}
	if breakdown["algebra"].Points() != 1 || breakdown["geometry"].Points() != 2 {
		t.Fatalf("breakdown mismatch: %+v", breakdown)
	}
}

func TestPerfectScore(t *testing.T) {
	score, _ := domain.PerfectScore(7)
	if !score.IsPerfect() {
		t.Fatalf("perfect score reports imperfect: %s", score)
	}
	almost, _ := domain.NewScore(99, 100)
	if almost.IsPerfect() {
		t.Fatal("99% should not be perfect")
	}
}

func TestMetadataIsCopyOnWrite(t *testing.T) {
	base, _ := domain.NewScore(1, 2)
	tagged := base.WithMetadata("pre_penalty", 80.0)
	if _, ok := base.Metadata("pre_penalty"); ok {
		t.Fatal("WithMetadata mutated the receiver")
	}
	v, ok := tagged.Metadata("pre_penalty")
	if !ok || math.Abs(v.(float64)-80.0) > 1e-9 {
		t.Fatalf("metadata lost: %v %v", v, ok)
	}
}
