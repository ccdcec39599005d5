package cli

import "adaptive-quiz-service/internal/domain"

// SampleQuestions is a small starter pool spanning the supported question
// types and difficulty levels; swap in a real authoring pipeline for
// production content.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:         "arith-add-1",
			Content:    domain.PlainText("What is 2 + 2?"),
			Type:       domain.SingleChoice,
			Difficulty: domain.NewCategoryDifficulty(1, "math"),
			Weight:     10,
			Category:   "math",
			Tags:       []string{"arithmetic"},
			Answers: []domain.Answer{
				domain.NewAnswer("a1", domain.PlainText("3"), false),
				domain.NewAnswer("a2", domain.PlainText("4"), true),
				domain.NewAnswer("a3", domain.PlainText("5"), false),
			},
		},
		{
			ID:         "geo-capital-1",
			Content:    domain.PlainText("Paris is the capital of France."),
			Type:       domain.TrueFalse,
			Difficulty: domain.NewCategoryDifficulty(2, "geography"),
			Weight:     10,
			Category:   "geography",
			Answers: []domain.Answer{
				domain.NewAnswer("a1", domain.PlainText("True"), true),
				domain.NewAnswer("a2", domain.PlainText("False"), false),
			},
		},
		{
			ID:         "prog-structs-1",
			Content:    domain.PlainText("Which of these are composite types in Go?"),
			Type:       domain.MultipleChoice,
			Difficulty: domain.NewCategoryDifficulty(5, "programming"),
			Weight:     20,
			Category:   "programming",
			Tags:       []string{"types"},
			Answers: []domain.Answer{
				domain.NewAnswer("a1", domain.PlainText("struct"), true),
				domain.NewAnswer("a2", domain.PlainText("map"), true),
				domain.NewAnswer("a3", domain.PlainText("int"), false),
				domain.NewAnswer("a4", domain.PlainText("slice"), true),
			},
		},
		{
			ID:         "prog-concurrency-1",
			Content:    domain.PlainText("Explain how a mutex differs from a channel for coordinating goroutines."),
			Type:       domain.Essay,
			Difficulty: domain.NewCategoryDifficulty(8, "programming"),
			Weight:     30,
			Category:   "programming",
			Tags:       []string{"concurrency"},
		},
		{
			ID:         "math-seq-1",
			Content:    domain.PlainText("The next number after 1, 1, 2, 3, 5 is ____."),
			Type:       domain.FillInTheBlank,
			Difficulty: domain.NewCategoryDifficulty(4, "math"),
			Weight:     15,
			Category:   "math",
			Tags:       []string{"sequences"},
			Answers: []domain.Answer{
				domain.NewAnswer("a1", domain.PlainText("8"), true),
				domain.NewAnswer("a2", domain.PlainText("13"), false),
			},
		},
		{
			ID:         "geo-rivers-1",
			Content:    domain.PlainText("The Nile is longer than the Amazon."),
			Type:       domain.TrueFalse,
			Difficulty: domain.NewCategoryDifficulty(6, "geography"),
			Weight:     10,
			Category:   "geography",
			Answers: []domain.Answer{
				domain.NewAnswer("a1", domain.PlainText("True"), true),
				domain.NewAnswer("a2", domain.PlainText("False"), false),
			},
		},
	}
}
