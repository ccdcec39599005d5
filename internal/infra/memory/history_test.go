package memory

import (
	"context"
	"testing"
	"time"

	"adaptive-quiz-service/internal/difficulty"
)

func TestHistorySummaryWithoutData(t *testing.T) {
	history := NewHistory()
	summary, err := history.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.HasData {
		t.Fatal("empty history should report no data")
	}
}

func TestHistorySummaryFromAttempts(t *testing.T) {
	history := NewHistory()
	ctx := context.Background()

	// 8 of 10 correct.
	for i := 0; i < 10; i++ {
		err := history.Record(ctx, "u1", difficulty.Attempt{
			QuestionID: "q",
			Correct:    i >= 2,
			TimeSpent:  30 * time.Second,
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	summary, err := history.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !summary.HasData {
		t.Fatal("expected data")
	}
	if summary.SkillLevel != 8 { // 1 + 0.8*9 truncated
		t.Fatalf("skill level = %d, want 8", summary.SkillLevel)
	}
	if summary.Confidence != 0.5 { // 10 of 20 attempts
		t.Fatalf("confidence = %.2f, want 0.5", summary.Confidence)
	}
	// Older half 3/5 correct, newer half 5/5: improving.
	if summary.ImprovementRate <= 0 {
		t.Fatalf("improvement rate = %.2f, want positive", summary.ImprovementRate)
	}
}

func TestHistoryWindowBounded(t *testing.T) {
	history := NewHistory()
	ctx := context.Background()

	for i := 0; i < maxHistoryPerUser+50; i++ {
		if err := history.Record(ctx, "u1", difficulty.Attempt{QuestionID: "q", Correct: true}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	attempts, err := history.Attempts(ctx, "u1")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(attempts) != maxHistoryPerUser {
		t.Fatalf("window = %d, want %d", len(attempts), maxHistoryPerUser)
	}
}
