package generator_test

import (
	"errors"
	"fmt"
	"testing"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/generator"
)

func TestGenerateFailsOnEmptyPool(t *testing.T) {
	gen := generator.NewSeededGenerator(1)
	criteria, _ := domain.NewGenerationCriteria("drill", 5, domain.MediumLevel())

	if _, err := gen.Generate(criteria, nil); !errors.Is(err, domain.ErrNoCandidates) {
		t.Fatalf("empty pool: %v", err)
	}

	criteria = criteria.WithCategories("chemistry")
	if _, err := gen.Generate(criteria, pool(10, 5)); !errors.Is(err, domain.ErrNoCandidates) {
		t.Fatalf("fully filtered pool: %v", err)
	}
}

func TestGenerateShuffleTakesRequestedCount(t *testing.T) {
	gen := generator.NewSeededGenerator(7)
	criteria, _ := domain.NewGenerationCriteria("drill", 8, domain.MediumLevel())

	quiz, err := gen.Generate(criteria, pool(20, 5))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 8 {
		t.Fatalf("selected %d questions, want 8", len(quiz.Questions))
	}
	if quiz.ID == "" || quiz.Title != "drill" {
		t.Fatalf("aggregate incomplete: %+v", quiz)
	}
}

func TestGenerateBalancedDistribution(t *testing.T) {
	gen := generator.NewSeededGenerator(42)
	criteria, _ := domain.NewGenerationCriteria("balanced drill", 10, domain.NewDifficultyLevel(5))
	criteria = criteria.WithBalancedDifficulty(true)

	candidates := append(append(poolAtLevel(4, 4), poolAtLevel(6, 5)...), poolAtLevel(3, 6)...)
	quiz, err := gen.Generate(criteria, candidates)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 10 {
		t.Fatalf("selected %d, want 10", len(quiz.Questions))
	}

	byLevel := map[int]int{}
	for _, q := range quiz.Questions {
		byLevel[q.Difficulty.Level()]++
	}
	if byLevel[5] != 5 {
		t.Fatalf("target level holds %d, want exactly 5 (%v)", byLevel[5], byLevel)
	}
	if byLevel[4] < 2 || byLevel[4] > 3 || byLevel[6] < 2 || byLevel[6] > 3 {
		t.Fatalf("side buckets out of range: %v", byLevel)
	}
}

func TestGenerateBalancedBackfillsShortBuckets(t *testing.T) {
	gen := generator.NewSeededGenerator(3)
	criteria, _ := domain.NewGenerationCriteria("drill", 10, domain.NewDifficultyLevel(5))
	criteria = criteria.WithBalancedDifficulty(true)

	// Only one question at the target level; the rest must backfill.
	candidates := append(poolAtLevel(1, 5), poolAtLevel(12, 8)...)
	quiz, err := gen.Generate(criteria, candidates)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 10 {
		t.Fatalf("backfill incomplete: %d of 10", len(quiz.Questions))
	}
}

func TestGenerateStopsWhenPoolExhausted(t *testing.T) {
	gen := generator.NewSeededGenerator(3)
	criteria, _ := domain.NewGenerationCriteria("drill", 50, domain.MediumLevel())
	criteria = criteria.WithBalancedDifficulty(true)

	quiz, err := gen.Generate(criteria, pool(7, 5))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 7 {
		t.Fatalf("expected the whole pool (7), got %d", len(quiz.Questions))
	}
}

func TestGenerateFilters(t *testing.T) {
	gen := generator.NewSeededGenerator(11)
	criteria, _ := domain.NewGenerationCriteria("drill", 10, domain.MediumLevel())
	criteria = criteria.WithTags("algebra").WithTypes(domain.SingleChoice).WithExclusions("q-5-0")

	candidates := pool(10, 5)
	for i := range candidates {
		if i%2 == 0 {
			candidates[i].Tags = []string{"algebra"}
		}
	}
	quiz, err := gen.Generate(criteria, candidates)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, q := range quiz.Questions {
		if !q.HasTag("algebra") {
			t.Fatalf("untagged question selected: %s", q.ID)
		}
		if q.ID == "q-5-0" {
			t.Fatal("excluded question selected")
		}
	}
}

func TestGenerateAllowRepeatIgnoresExclusions(t *testing.T) {
	gen := generator.NewSeededGenerator(11)
	criteria, _ := domain.NewGenerationCriteria("drill", 10, domain.MediumLevel())
	criteria = criteria.WithExclusions("q-5-0").WithAllowRepeat(true)

	quiz, err := gen.Generate(criteria, pool(10, 5))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Questions) != 10 {
		t.Fatalf("repeat-allowed selection lost questions: %d", len(quiz.Questions))
	}
}

func TestGenerateTypeDistribution(t *testing.T) {
	gen := generator.NewSeededGenerator(5)
	criteria, _ := domain.NewGenerationCriteria("drill", 10, domain.MediumLevel())
	criteria = criteria.WithTypeDistribution(map[domain.QuestionType]float64{
		domain.SingleChoice: 60,
		domain.TrueFalse:    40,
	})

	candidates := pool(15, 5)
	for i := range candidates {
		if i >= 8 {
			candidates[i].Type = domain.TrueFalse
			candidates[i].Answers = candidates[i].Answers[:2]
		}
	}
	quiz, err := gen.Generate(criteria, candidates)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	counts := map[domain.QuestionType]int{}
	for _, q := range quiz.Questions {
		counts[q.Type]++
	}
	if counts[domain.SingleChoice] > 6 {
		t.Fatalf("single choice over quota: %d", counts[domain.SingleChoice])
	}
	if counts[domain.TrueFalse] > 4 {
		t.Fatalf("true/false over quota: %d", counts[domain.TrueFalse])
	}
}

func TestGenerateDeducesCategories(t *testing.T) {
	gen := generator.NewSeededGenerator(9)
	criteria, _ := domain.NewGenerationCriteria("drill", 10, domain.MediumLevel())

	candidates := pool(10, 5)
	for i := range candidates {
		candidates[i].Category = "arithmetic"
	}
	quiz, err := gen.Generate(criteria, candidates)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(quiz.Categories) != 1 || quiz.Categories[0] != "arithmetic" {
		t.Fatalf("categories = %v", quiz.Categories)
	}
}

func pool(n, level int) []domain.Question {
	return poolAtLevel(n, level)
}

func poolAtLevel(n, level int) []domain.Question {
	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, domain.Question{
			ID:         fmt.Sprintf("q-%d-%d", level, i),
			Content:    domain.PlainText(fmt.Sprintf("question %d at level %d", i, level)),
			Type:       domain.SingleChoice,
			Difficulty: domain.NewDifficultyLevel(level),
			Weight:     1,
			Answers: []domain.Answer{
				domain.NewAnswer("a1", domain.PlainText("right"), true),
				domain.NewAnswer("a2", domain.PlainText("wrong"), false),
			},
		})
	}
	return questions
}
