package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/session"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SessionStore persists session snapshots in the quiz_sessions table, one
// JSONB document per session. It implements app.SessionRepository and keeps
// the full played record, so completed sessions stay queryable for review.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Save(ctx context.Context, snap session.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", snap.ID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quiz_sessions (id, user_id, data, completed, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE
		SET data = EXCLUDED.data, completed = EXCLUDED.completed, updated_at = now()`,
		snap.ID, snap.UserID, payload, snap.Completed)
	if err != nil {
		return fmt.Errorf("save session %s: %w", snap.ID, err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (session.Snapshot, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quiz_sessions WHERE id=$1`, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Snapshot{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return snap, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM quiz_sessions WHERE id=$1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
