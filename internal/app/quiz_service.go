package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"adaptive-quiz-service/internal/difficulty"
	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/generator"
	"adaptive-quiz-service/internal/scoring"
	"adaptive-quiz-service/internal/session"
)

// QuestionRepository loads the question pool used for quiz generation
// (from cache/backing store).
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// SessionRepository abstracts how session snapshots are stored
// (in-memory, Redis, etc). Load returns domain.ErrSessionNotFound for
// unknown ids.
type SessionRepository interface {
	Save(ctx context.Context, snap session.Snapshot) error
	Load(ctx context.Context, sessionID string) (session.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// PerformanceHistory keeps per-user attempt history for difficulty
// personalization.
type PerformanceHistory interface {
	Record(ctx context.Context, userID string, attempts ...difficulty.Attempt) error
	Summary(ctx context.Context, userID string) (difficulty.PerformanceSummary, error)
}

// EventSink receives engine events. Publish must not block; a sink that
// cannot keep up drops events rather than stalling a submission.
type EventSink interface {
	Publish(events ...domain.Event)
}

// QuizService contains the core quiz use cases. Sessions are rebuilt from
// their stored snapshot per call; a per-session mutex serializes mutators
// so the engine itself stays lock-free.
type QuizService struct {
	questions QuestionRepository
	sessions  SessionRepository
	history   PerformanceHistory
	events    EventSink
	gen       *generator.Generator
	scorer    *scoring.Scorer
	calc      *difficulty.Calculator
	locks     keyedMutex
	now       func() time.Time
}

func NewQuizService(questions QuestionRepository, sessions SessionRepository, history PerformanceHistory, events EventSink) *QuizService {
	return &QuizService{
		questions: questions,
		sessions:  sessions,
		history:   history,
		events:    events,
		gen:       generator.NewGenerator(),
		scorer:    scoring.NewScorer(),
		calc:      difficulty.NewCalculator(),
		now:       time.Now,
	}
}

// WithClock pins the service clock for deterministic tests.
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// SessionView is the read model handed to transports.
type SessionView struct {
	SessionID       string           `json:"sessionId"`
	UserID          string           `json:"userId"`
	QuestionCount   int              `json:"questionCount"`
	AnsweredCount   int              `json:"answeredCount"`
	Progress        float64          `json:"progress"`
	Score           float64          `json:"score"`
	Accuracy        float64          `json:"accuracy"`
	Completed       bool             `json:"completed"`
	Abandoned       bool             `json:"abandoned"`
	TimedOut        bool             `json:"timedOut"`
	CurrentQuestion *domain.Question `json:"currentQuestion,omitempty"`
}

// Summary is the terminal report of a session.
type Summary struct {
	SessionID        string  `json:"sessionId"`
	UserID           string  `json:"userId"`
	Score            float64 `json:"score"`
	Accuracy         float64 `json:"accuracy"`
	PerformanceLevel string  `json:"performanceLevel"`
	CorrectAnswers   int     `json:"correctAnswers"`
	QuestionCount    int     `json:"questionCount"`
	Abandoned        bool    `json:"abandoned"`
}

// StartSession generates a quiz from the pool and opens a session for the
// user. A zero target difficulty is personalized from the user's history.
func (s *QuizService) StartSession(ctx context.Context, userID string, criteria domain.GenerationCriteria, cfg session.Config) (SessionView, error) {
	if criteria.TargetDifficulty.Level() == 0 {
		criteria.TargetDifficulty = s.personalizedTarget(ctx, userID)
	}

	pool, err := s.questions.Questions(ctx)
	if err != nil {
		return SessionView{}, fmt.Errorf("load question pool: %w", err)
	}

	quiz, err := s.gen.Generate(criteria, pool)
	if err != nil {
		return SessionView{}, err
	}

	sess, events, err := session.NewWithClock(userID, quiz, s.scorer, cfg, s.now)
	if err != nil {
		return SessionView{}, err
	}
	if err := s.sessions.Save(ctx, sess.Snapshot()); err != nil {
		return SessionView{}, fmt.Errorf("save session %s: %w", sess.ID(), err)
	}
	s.events.Publish(events...)
	return viewOf(sess), nil
}

// SubmitAnswer grades a submission against the session's current question
// and persists the advanced state.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID string, sub domain.Submission, timeSpent time.Duration) (session.QuestionAnswer, SessionView, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return session.QuestionAnswer{}, SessionView{}, err
	}

	record, events, err := sess.SubmitAnswer(sub, timeSpent)
	if err != nil {
		return session.QuestionAnswer{}, SessionView{}, err
	}
	if err := s.sessions.Save(ctx, sess.Snapshot()); err != nil {
		return session.QuestionAnswer{}, SessionView{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}

	// History and events are best-effort; the graded state is already saved.
	if err := s.history.Record(ctx, sess.UserID(), difficulty.Attempt{
		QuestionID: record.QuestionID,
		Correct:    record.Correct,
		TimeSpent:  record.TimeSpent,
	}); err != nil {
		logf("record history for %s: %v", sess.UserID(), err)
	}
	s.events.Publish(events...)
	return record, viewOf(sess), nil
}

// NextQuestion serves the question the session should present next,
// adaptively when the session was opened adaptive.
func (s *QuizService) NextQuestion(ctx context.Context, sessionID string) (domain.Question, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return domain.Question{}, err
	}
	if sess.IsCompleted() {
		return domain.Question{}, domain.ErrSessionCompleted
	}
	q, ok := sess.RecommendedNextQuestion()
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: all questions answered", domain.ErrQuestionNotFound)
	}
	return q, nil
}

// CompleteSession closes the session and reports its outcome.
func (s *QuizService) CompleteSession(ctx context.Context, sessionID string, totalTimeSpent time.Duration) (Summary, error) {
	return s.finish(ctx, sessionID, totalTimeSpent, false)
}

// AbandonSession closes the session early, keeping the partial record.
func (s *QuizService) AbandonSession(ctx context.Context, sessionID string, totalTimeSpent time.Duration) (Summary, error) {
	return s.finish(ctx, sessionID, totalTimeSpent, true)
}

func (s *QuizService) finish(ctx context.Context, sessionID string, totalTimeSpent time.Duration, abandon bool) (Summary, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}

	var events []domain.Event
	if abandon {
		events, err = sess.Abandon(totalTimeSpent)
	} else {
		events, err = sess.Complete(totalTimeSpent)
	}
	if err != nil {
		return Summary{}, err
	}
	if err := s.sessions.Save(ctx, sess.Snapshot()); err != nil {
		return Summary{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	s.events.Publish(events...)

	return Summary{
		SessionID:        sess.ID(),
		UserID:           sess.UserID(),
		Score:            sess.Score(),
		Accuracy:         sess.Accuracy(),
		PerformanceLevel: domain.PerformanceLevel(sess.Score()),
		CorrectAnswers:   sess.CorrectAnswersCount(),
		QuestionCount:    sess.QuestionCount(),
		Abandoned:        sess.IsAbandoned(),
	}, nil
}

// SessionProgress is a read-only view of the session state.
func (s *QuizService) SessionProgress(ctx context.Context, sessionID string) (SessionView, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return viewOf(sess), nil
}

// RecommendedDifficulty personalizes a starting difficulty for the user.
func (s *QuizService) RecommendedDifficulty(ctx context.Context, userID string) domain.DifficultyLevel {
	return s.personalizedTarget(ctx, userID)
}

func (s *QuizService) personalizedTarget(ctx context.Context, userID string) domain.DifficultyLevel {
	summary, err := s.history.Summary(ctx, userID)
	if err != nil {
		logf("history summary for %s: %v", userID, err)
		return domain.MediumLevel()
	}
	return s.calc.Personalized(summary)
}

func (s *QuizService) load(ctx context.Context, sessionID string) (*session.Session, error) {
	snap, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.RestoreWithClock(snap, s.scorer, s.now)
}

func viewOf(sess *session.Session) SessionView {
	view := SessionView{
		SessionID:     sess.ID(),
		UserID:        sess.UserID(),
		QuestionCount: sess.QuestionCount(),
		AnsweredCount: sess.AnsweredQuestionCount(),
		Progress:      sess.Progress(),
		Score:         sess.Score(),
		Accuracy:      sess.Accuracy(),
		Completed:     sess.IsCompleted(),
		Abandoned:     sess.IsAbandoned(),
		TimedOut:      sess.HasTimedOut(),
	}
	if q, ok := sess.CurrentQuestion(); ok && !sess.IsCompleted() {
		view.CurrentQuestion = &q
	}
	return view
}

// logf is swappable so tests can silence best-effort failure logging.
var logf = log.Printf

// keyedMutex hands out one mutex per session id, reclaiming entries once
// nobody holds them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
