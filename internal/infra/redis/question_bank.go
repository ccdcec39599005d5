package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"adaptive-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const poolKey = "quiz:questions"

// QuestionLoader fetches the question pool from a backing store (e.g.
// Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionBank caches the question pool in Redis as a JSON document of
// flat question records and falls back to a loader on cache miss. It
// implements app.QuestionRepository.
type QuestionBank struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (b *QuestionBank) Questions(ctx context.Context) ([]domain.Question, error) {
	if pool, ok := b.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := b.sf.Do(poolKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := b.cached(ctx); ok {
			return pool, nil
		}

		pool, err := b.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		records := make([]domain.QuestionRecord, 0, len(pool))
		for _, q := range pool {
			records = append(records, domain.FlattenQuestion(q))
		}
		payload, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("encode question pool: %w", err)
		}
		// best-effort: a failed cache write still serves the pool
		_ = b.client.Set(ctx, poolKey, payload, b.ttlWithJitter()).Err()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached pool so the next read reloads.
func (b *QuestionBank) Invalidate(ctx context.Context) error {
	return b.client.Del(ctx, poolKey).Err()
}

func (b *QuestionBank) cached(ctx context.Context) ([]domain.Question, bool) {
	payload, err := b.client.Get(ctx, poolKey).Bytes()
	if err != nil {
		return nil, false
	}
	var records []domain.QuestionRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false
	}
	pool := make([]domain.Question, 0, len(records))
	for _, rec := range records {
		q, err := domain.BuildQuestion(rec)
		if err != nil {
			// A corrupt cache entry is treated as a miss.
			return nil, false
		}
		pool = append(pool, q)
	}
	return pool, true
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	jitterMax := int64(b.ttl) / 10
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
