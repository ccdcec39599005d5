// Package generator builds quizzes from a candidate question pool according
// to generation criteria, optionally balancing difficulty around a target
// level.
package generator

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"adaptive-quiz-service/internal/domain"
)

// Balanced-draw shares around the target level.
const (
	targetShare = 0.50
	easierShare = 0.25
	harderShare = 0.25
)

// Generator selects questions for a quiz. It is cheap to construct and safe
// to reuse from a single goroutine.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator pins the shuffle order for deterministic tests.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate filters candidates by the criteria, draws the requested number of
// questions (balanced around the target difficulty when asked), applies the
// optional type distribution, and assembles the quiz aggregate. An empty
// post-filter pool is a domain error.
func (g *Generator) Generate(criteria domain.GenerationCriteria, candidates []domain.Question) (domain.Quiz, error) {
	if err := criteria.Validate(); err != nil {
		return domain.Quiz{}, err
	}

	pool := filter(criteria, candidates)
	if len(pool) == 0 {
		return domain.Quiz{}, domain.ErrNoCandidates
	}

	var selected []domain.Question
	if criteria.BalanceDifficulty {
		selected = g.balancedDraw(criteria.TargetDifficulty, criteria.QuestionCount, pool)
	} else {
		g.shuffle(pool)
		selected = take(pool, criteria.QuestionCount)
	}

	if len(criteria.TypeDistribution) > 0 {
		selected = applyTypeDistribution(criteria.TypeDistribution, selected)
	}

	return domain.Quiz{
		ID:               uuid.NewString(),
		Title:            criteria.Title,
		Questions:        selected,
		Categories:       deduceCategories(selected),
		Tags:             append([]string(nil), criteria.Tags...),
		TargetDifficulty: criteria.TargetDifficulty,
		TimeLimit:        criteria.TimeLimit,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func filter(criteria domain.GenerationCriteria, candidates []domain.Question) []domain.Question {
	excluded := make(map[string]bool, len(criteria.ExcludeQuestionIDs))
	if !criteria.AllowRepeat {
		for _, id := range criteria.ExcludeQuestionIDs {
			excluded[id] = true
		}
	}

	pool := make([]domain.Question, 0, len(candidates))
	for _, q := range candidates {
		if excluded[q.ID] {
			continue
		}
		if len(criteria.Categories) > 0 && !containsString(criteria.Categories, q.Category) {
			continue
		}
		if len(criteria.Tags) > 0 && !hasAnyTag(q, criteria.Tags) {
			continue
		}
		if len(criteria.Types) > 0 && !containsType(criteria.Types, q.Type) {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}

// balancedDraw partitions the pool by difficulty level and draws 50% at the
// target level plus 25% one level to each side, topping shortfalls up from
// the remaining unused candidates.
func (g *Generator) balancedDraw(target domain.DifficultyLevel, count int, pool []domain.Question) []domain.Question {
	byLevel := make(map[int][]domain.Question)
	for _, q := range pool {
		byLevel[q.Difficulty.Level()] = append(byLevel[q.Difficulty.Level()], q)
	}
	for _, bucket := range byLevel {
		g.shuffle(bucket)
	}

	targetCount := int(float64(count) * targetShare)
	easierCount := int(float64(count) * easierShare)
	harderCount := int(float64(count) * harderShare)
	// Hand leftovers to the side buckets first (easier, then harder), then
	// the target bucket.
	for rest := count - targetCount - easierCount - harderCount; rest > 0; rest-- {
		switch rest % 3 {
		case 1:
			easierCount++
		case 2:
			harderCount++
		default:
			targetCount++
		}
	}

	used := make(map[string]bool, count)
	selected := make([]domain.Question, 0, count)
	draw := func(level, n int) {
		for _, q := range byLevel[level] {
			if n == 0 {
				return
			}
			if used[q.ID] {
				continue
			}
			used[q.ID] = true
			selected = append(selected, q)
			n--
		}
	}
	draw(target.Level(), targetCount)
	draw(target.Decrease().Level(), easierCount)
	draw(target.Increase().Level(), harderCount)

	// Backfill from any unused candidate until the request is met or the
	// pool runs dry.
	if len(selected) < count {
		rest := make([]domain.Question, 0, len(pool))
		for _, q := range pool {
			if !used[q.ID] {
				rest = append(rest, q)
			}
		}
		g.shuffle(rest)
		for _, q := range rest {
			if len(selected) == count {
				break
			}
			used[q.ID] = true
			selected = append(selected, q)
		}
	}
	return selected
}

// applyTypeDistribution re-filters the selection so each listed type holds
// its percentage share of the selected set. Quotas use floor division with
// the remainder spread in listing order; unlisted types fill whatever the
// quotas leave open.
func applyTypeDistribution(dist map[domain.QuestionType]float64, selected []domain.Question) []domain.Question {
	size := len(selected)
	quotas := make(map[domain.QuestionType]int, len(dist))
	assigned := 0
	for _, qt := range domain.QuestionTypes() {
		pct, ok := dist[qt]
		if !ok {
			continue
		}
		quotas[qt] = int(pct / 100 * float64(size))
		assigned += quotas[qt]
	}
	for _, qt := range domain.QuestionTypes() {
		if assigned >= size {
			break
		}
		if _, ok := dist[qt]; ok {
			quotas[qt]++
			assigned++
		}
	}

	kept := make([]domain.Question, 0, size)
	overflow := make([]domain.Question, 0, size)
	for _, q := range selected {
		quota, listed := quotas[q.Type]
		if listed && quota > 0 {
			quotas[q.Type] = quota - 1
			kept = append(kept, q)
		} else {
			overflow = append(overflow, q)
		}
	}
	for _, q := range overflow {
		if len(kept) == size {
			break
		}
		if _, listed := dist[q.Type]; !listed {
			kept = append(kept, q)
		}
	}
	return kept
}

func deduceCategories(questions []domain.Question) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, q := range questions {
		if q.Category == "" || seen[q.Category] {
			continue
		}
		seen[q.Category] = true
		categories = append(categories, q.Category)
	}
	return categories
}

func (g *Generator) shuffle(questions []domain.Question) {
	g.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func take(questions []domain.Question, n int) []domain.Question {
	if len(questions) <= n {
		return questions
	}
	return questions[:n]
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsType(types []domain.QuestionType, qt domain.QuestionType) bool {
	for _, t := range types {
		if t == qt {
			return true
		}
	}
	return false
}

func hasAnyTag(q domain.Question, tags []string) bool {
	for _, tag := range tags {
		if q.HasTag(tag) {
			return true
		}
	}
	return false
}
