package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/scoring"
	"adaptive-quiz-service/internal/session"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	ctx := context.Background()

	sess := newLiveSession(t)
	if err := store.Save(ctx, sess.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:session:" + sess.ID()) {
		t.Fatalf("expected redis key for session %s", sess.ID())
	}

	snap, err := store.Load(ctx, sess.ID())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored, err := session.Restore(snap, scoring.NewScorer())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.AnsweredQuestionCount() != 1 || restored.Cursor() != 1 {
		t.Fatalf("state lost in redis round trip: answered=%d cursor=%d",
			restored.AnsweredQuestionCount(), restored.Cursor())
	}

	if err := store.Delete(ctx, sess.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("quiz:session:" + sess.ID()) {
		t.Fatalf("expected redis key removed")
	}
}

func TestSessionStoreUnknownID(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	if _, err := store.Load(context.Background(), "ghost"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	ctx := context.Background()

	sess := newLiveSession(t)
	if err := store.Save(ctx, sess.Snapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Load(ctx, sess.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func newLiveSession(t *testing.T) *session.Session {
	t.Helper()
	quiz := domain.Quiz{
		ID:               "quiz-1",
		Title:            "redis round trip",
		Questions:        samplePool(),
		TargetDifficulty: domain.NewDifficultyLevel(3),
	}
	sess, _, err := session.New("u1", quiz, scoring.NewScorer(), session.Config{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	first := quiz.Questions[0]
	sub := domain.Submission{QuestionID: first.ID, Values: []string{"a2"}}
	if _, _, err := sess.SubmitAnswer(sub, 10*time.Second); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return sess
}
