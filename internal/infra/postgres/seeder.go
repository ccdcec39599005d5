package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adaptive-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

// questionRow is the bun model backing the questions table.
type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID        string          `bun:"id,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	CreatedAt time.Time       `bun:"created_at,nullzero,default:now()"`
}

// Seeder writes questions into Postgres through bun. Used by the seed
// command and the integration tests.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed upserts the given questions. Invalid questions are rejected before
// anything is written.
func (s *Seeder) Seed(ctx context.Context, questions []domain.Question) error {
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %s: %w", q.ID, err)
		}
		payload, err := json.Marshal(domain.FlattenQuestion(q))
		if err != nil {
			return fmt.Errorf("encode question %s: %w", q.ID, err)
		}
		rows = append(rows, questionRow{ID: q.ID, Data: payload})
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	return nil
}

// Count reports how many questions the pool holds.
func (s *Seeder) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*questionRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}
