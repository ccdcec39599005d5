package difficulty_test

import (
	"strings"
	"testing"
	"time"

	"adaptive-quiz-service/internal/difficulty"
	"adaptive-quiz-service/internal/domain"
)

func TestEstimateInitialByType(t *testing.T) {
	calc := difficulty.NewCalculator()

	tf := simpleQuestion(domain.TrueFalse, "Is 7 prime?")
	if got := calc.EstimateInitial(tf).Level(); got != 4 {
		t.Fatalf("true/false estimate = %d, want 4", got)
	}

	essay := simpleQuestion(domain.Essay, "Discuss.")
	if got := calc.EstimateInitial(essay).Level(); got != 8 {
		t.Fatalf("essay estimate = %d, want 8", got)
	}
}

func TestEstimateInitialContentBonusCapped(t *testing.T) {
	calc := difficulty.NewCalculator()

	// Long code content stuffed with keywords must cap at +3 content bonus.
	text := strings.Repeat("word ", 120) + "algorithm recursion complexity concurrency"
	q := simpleQuestion(domain.SingleChoice, text)
	q.Content.Kind = domain.ContentCode
	if got := calc.EstimateInitial(q).Level(); got != 8 {
		t.Fatalf("capped estimate = %d, want 8 (5 base + 3 content + 0 type)", got)
	}
}

func TestEstimateInitialAnswerBonus(t *testing.T) {
	calc := difficulty.NewCalculator()

	q := simpleQuestion(domain.SingleChoice, "Pick one")
	long := strings.Repeat("x", 60)
	q.Answers = []domain.Answer{
		domain.NewAnswer("a1", domain.PlainText(long), true),
		domain.NewAnswer("a2", domain.PlainText(long), false),
		domain.NewAnswer("a3", domain.PlainText(long), false),
		domain.NewAnswer("a4", domain.PlainText(long), false),
		domain.NewAnswer("a5", domain.PlainText(long), false),
	}
	// 5 base + 1 (answer count) + 1 (answer length).
	if got := calc.EstimateInitial(q).Level(); got != 7 {
		t.Fatalf("estimate = %d, want 7", got)
	}
}

func TestAdjustFromPerformance(t *testing.T) {
	calc := difficulty.NewCalculator()
	q := simpleQuestion(domain.SingleChoice, "Pick one")
	q.Difficulty = domain.NewDifficultyLevel(5) // expected time 150s

	cases := []struct {
		name     string
		attempts []difficulty.Attempt
		want     int
	}{
		{"no attempts", nil, 5},
		{"too easy and fast", attempts(q.ID, 5, 5, 60*time.Second), 7},
		{"too easy, normal pace", attempts(q.ID, 5, 5, 150*time.Second), 6},
		{"too hard and slow", attempts(q.ID, 5, 1, 250*time.Second), 3},
		{"balanced", attempts(q.ID, 5, 3, 150*time.Second), 5},
		{"other question ignored", attempts("other", 5, 5, 10*time.Second), 5},
	}
	for _, tc := range cases {
		got := calc.AdjustFromPerformance(q, tc.attempts).Level()
		if got != tc.want {
			t.Fatalf("%s: level = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestAdjustClampsAtScaleEdges(t *testing.T) {
	calc := difficulty.NewCalculator()
	q := simpleQuestion(domain.SingleChoice, "Pick one")
	q.Difficulty = domain.NewDifficultyLevel(10)

	got := calc.AdjustFromPerformance(q, attempts(q.ID, 5, 5, 30*time.Second))
	if got.Level() != 10 {
		t.Fatalf("adjustment escaped the scale: %d", got.Level())
	}
}

func TestPersonalized(t *testing.T) {
	calc := difficulty.NewCalculator()

	if got := calc.Personalized(difficulty.PerformanceSummary{}).Level(); got != 5 {
		t.Fatalf("no data should default to medium, got %d", got)
	}

	confident := difficulty.PerformanceSummary{SkillLevel: 6, Confidence: 0.9, ImprovementRate: 0.2, HasData: true}
	if got := calc.Personalized(confident).Level(); got != 8 {
		t.Fatalf("confident improver = %d, want 8", got)
	}

	struggling := difficulty.PerformanceSummary{SkillLevel: 3, Confidence: 0.2, ImprovementRate: -0.3, HasData: true}
	if got := calc.Personalized(struggling).Level(); got != 1 {
		t.Fatalf("struggling learner = %d, want 1", got)
	}
}

func TestRecommendNext(t *testing.T) {
	calc := difficulty.NewCalculator()
	current := domain.NewDifficultyLevel(5)

	cases := []struct {
		rate        float64
		consecutive int
		want        int
	}{
		{0.95, 6, 7},
		{0.85, 3, 6},
		{0.95, 2, 5}, // high rate but streak too short
		{0.6, 0, 5},
		{0.45, 0, 4},
		{0.2, 0, 3},
	}
	for _, tc := range cases {
		got := calc.RecommendNext(current, tc.rate, tc.consecutive).Level()
		if got != tc.want {
			t.Fatalf("RecommendNext(%.2f, %d) = %d, want %d", tc.rate, tc.consecutive, got, tc.want)
		}
	}
}

func TestOptimalRange(t *testing.T) {
	calc := difficulty.NewCalculator()
	target := domain.NewDifficultyLevel(5)

	r := calc.OptimalRange(target, 3)
	if r.Min.Level() != 4 || r.Max.Level() != 6 {
		t.Fatalf("small quiz window = [%d,%d], want [4,6]", r.Min.Level(), r.Max.Level())
	}
	r = calc.OptimalRange(target, 10)
	if r.Min.Level() != 3 || r.Max.Level() != 7 {
		t.Fatalf("medium quiz window = [%d,%d], want [3,7]", r.Min.Level(), r.Max.Level())
	}
	r = calc.OptimalRange(domain.NewDifficultyLevel(9), 50)
	if r.Min.Level() != 6 || r.Max.Level() != 10 {
		t.Fatalf("clamped window = [%d,%d], want [6,10]", r.Min.Level(), r.Max.Level())
	}
}

func TestExpectedTimeTable(t *testing.T) {
	if got := difficulty.ExpectedTime(domain.NewDifficultyLevel(1)); got != 30*time.Second {
		t.Fatalf("level 1 expected time = %s", got)
	}
	if got := difficulty.ExpectedTime(domain.NewDifficultyLevel(10)); got != 300*time.Second {
		t.Fatalf("level 10 expected time = %s", got)
	}
}

func attempts(questionID string, total, correct int, each time.Duration) []difficulty.Attempt {
	out := make([]difficulty.Attempt, 0, total)
	for i := 0; i < total; i++ {
		out = append(out, difficulty.Attempt{
			QuestionID: questionID,
			Correct:    i < correct,
			TimeSpent:  each,
		})
	}
	return out
}

func simpleQuestion(qType domain.QuestionType, text string) domain.Question {
	q := domain.Question{
		ID:         "q1",
		Content:    domain.PlainText(text),
		Type:       qType,
		Difficulty: domain.MediumLevel(),
		Weight:     1,
	}
	if qType == domain.SingleChoice || qType == domain.TrueFalse {
		q.Answers = []domain.Answer{
			domain.NewAnswer("a1", domain.PlainText("True"), true),
			domain.NewAnswer("a2", domain.PlainText("False"), false),
		}
	}
	return q
}
