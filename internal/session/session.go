// Package session implements the quiz session state machine: a fixed
// question list walked by a cursor, grading each submission through the
// scoring dispatch and accumulating the adaptive-learning trace.
//
// A session is exclusively owned by the user who started it. The state
// machine holds no locks; callers serialize concurrent mutators (the app
// layer keeps a per-session lock). Mutating operations return the emitted
// events instead of dispatching them anywhere.
package session

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/scoring"
)

// adaptiveWindow is how many recent answers feed the next-question
// recommendation.
const adaptiveWindow = 3

// TraceRecord is one entry of the adaptive-learning trace.
type TraceRecord struct {
	Order      int           `json:"order"`
	QuestionID string        `json:"questionId"`
	Correct    bool          `json:"correct"`
	Percentage float64       `json:"percentage"`
	TimeSpent  time.Duration `json:"timeSpent"`
	Difficulty int           `json:"difficulty"`
}

// Config carries the optional knobs for a new session.
type Config struct {
	Adaptive  bool
	Practice  bool
	TimeLimit *domain.TimeLimit // overrides the quiz's own limit when set
}

// Session drives one user's run through a generated quiz. It is created
// already in progress and transitions only forward.
type Session struct {
	id        string
	userID    string
	questions []domain.Question
	answers   []QuestionAnswer
	trace     []TraceRecord
	cursor    int

	target    domain.DifficultyLevel
	timeLimit *domain.TimeLimit
	adaptive  bool
	practice  bool

	startedAt   time.Time
	completedAt *time.Time
	totalTime   time.Duration
	completed   bool
	abandoned   bool

	scorer *scoring.Scorer
	now    func() time.Time
}

// New starts a session over the quiz's question list. The returned event
// slice carries the session-started record for the caller's sink.
func New(userID string, quiz domain.Quiz, scorer *scoring.Scorer, cfg Config) (*Session, []domain.Event, error) {
	return newWithClock(userID, quiz, scorer, cfg, time.Now)
}

// NewWithClock pins the clock for deterministic tests.
func NewWithClock(userID string, quiz domain.Quiz, scorer *scoring.Scorer, cfg Config, now func() time.Time) (*Session, []domain.Event, error) {
	return newWithClock(userID, quiz, scorer, cfg, now)
}

func newWithClock(userID string, quiz domain.Quiz, scorer *scoring.Scorer, cfg Config, now func() time.Time) (*Session, []domain.Event, error) {
	if len(quiz.Questions) == 0 {
		return nil, nil, domain.ErrNoCandidates
	}
	limit := quiz.TimeLimit
	if cfg.TimeLimit != nil {
		limit = cfg.TimeLimit
	}
	s := &Session{
		id:        uuid.NewString(),
		userID:    userID,
		questions: append([]domain.Question(nil), quiz.Questions...),
		target:    quiz.TargetDifficulty,
		timeLimit: limit,
		adaptive:  cfg.Adaptive,
		practice:  cfg.Practice,
		startedAt: now().UTC(),
		scorer:    scorer,
		now:       now,
	}
	started := domain.SessionStarted{
		SessionID:     s.id,
		UserID:        userID,
		QuestionCount: len(s.questions),
		Difficulty:    s.target.Level(),
		Adaptive:      s.adaptive,
		OccurredAt:    s.startedAt,
	}
	return s, []domain.Event{started}, nil
}

func (s *Session) ID() string                     { return s.id }
func (s *Session) UserID() string                 { return s.userID }
func (s *Session) StartedAt() time.Time           { return s.startedAt }
func (s *Session) CompletedAt() *time.Time        { return s.completedAt }
func (s *Session) IsCompleted() bool              { return s.completed }
func (s *Session) IsAbandoned() bool              { return s.abandoned }
func (s *Session) IsAdaptive() bool               { return s.adaptive }
func (s *Session) IsPractice() bool               { return s.practice }
func (s *Session) Target() domain.DifficultyLevel { return s.target }
func (s *Session) TimeLimit() *domain.TimeLimit   { return s.timeLimit }
func (s *Session) QuestionCount() int             { return len(s.questions) }
func (s *Session) Cursor() int                    { return s.cursor }

// Questions returns a copy of the fixed question list.
func (s *Session) Questions() []domain.Question {
	return append([]domain.Question(nil), s.questions...)
}

// Answers returns a copy of the recorded grading records, in answer order.
func (s *Session) Answers() []QuestionAnswer {
	return append([]QuestionAnswer(nil), s.answers...)
}

// Trace returns a copy of the adaptive-learning trace.
func (s *Session) Trace() []TraceRecord {
	return append([]TraceRecord(nil), s.trace...)
}

// CurrentQuestion returns the question at the cursor, false when every
// question has been answered.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	if s.cursor >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.cursor], true
}

// SubmitAnswer grades the submission for the question at the cursor and
// advances it. Submitting the most recently answered question again replaces
// its record without advancing the cursor; any other question id is an
// out-of-order domain error. Answers on a completed session are rejected.
func (s *Session) SubmitAnswer(sub domain.Submission, timeSpent time.Duration) (QuestionAnswer, []domain.Event, error) {
	if s.completed {
		return QuestionAnswer{}, nil, domain.ErrSessionCompleted
	}

	resubmission := false
	var question domain.Question
	switch {
	case s.cursor < len(s.questions) && s.questions[s.cursor].ID == sub.QuestionID:
		question = s.questions[s.cursor]
	case s.cursor > 0 && s.questions[s.cursor-1].ID == sub.QuestionID:
		question = s.questions[s.cursor-1]
		resubmission = true
	default:
		return QuestionAnswer{}, nil, fmt.Errorf("%w: expected question %s", domain.ErrQuestionOrder, s.expectedQuestionID())
	}

	record, err := NewQuestionAnswer(s.scorer, question, sub, timeSpent, s.now().UTC())
	if err != nil {
		return QuestionAnswer{}, nil, err
	}

	trace := TraceRecord{
		QuestionID: question.ID,
		Correct:    record.Correct,
		Percentage: record.Score.Percentage(),
		TimeSpent:  timeSpent,
		Difficulty: question.Difficulty.Level(),
	}
	if resubmission {
		s.answers[len(s.answers)-1] = record
		trace.Order = s.trace[len(s.trace)-1].Order
		s.trace[len(s.trace)-1] = trace
	} else {
		s.answers = append(s.answers, record)
		trace.Order = len(s.trace) + 1
		s.trace = append(s.trace, trace)
		s.cursor++
	}

	answered := domain.QuestionAnswered{
		SessionID:  s.id,
		UserID:     s.userID,
		QuestionID: question.ID,
		Correct:    record.Correct,
		Percentage: record.Score.Percentage(),
		TimeSpent:  timeSpent,
		Difficulty: question.Difficulty.Level(),
		OccurredAt: record.AnsweredAt,
	}
	return record, []domain.Event{answered}, nil
}

// Complete transitions the session to its terminal state. Completing twice
// is a domain error.
func (s *Session) Complete(totalTimeSpent time.Duration) ([]domain.Event, error) {
	return s.finish(totalTimeSpent, false)
}

// Abandon is the caller-driven terminal outcome for timed-out or cancelled
// sessions. The engine never forces it on its own.
func (s *Session) Abandon(totalTimeSpent time.Duration) ([]domain.Event, error) {
	return s.finish(totalTimeSpent, true)
}

func (s *Session) finish(totalTimeSpent time.Duration, abandoned bool) ([]domain.Event, error) {
	if s.completed {
		return nil, domain.ErrSessionCompleted
	}
	now := s.now().UTC()
	s.completed = true
	s.abandoned = abandoned
	s.completedAt = &now
	s.totalTime = totalTimeSpent

	score := s.Score()
	completed := domain.SessionCompleted{
		SessionID:        s.id,
		UserID:           s.userID,
		Score:            score,
		Accuracy:         s.Accuracy(),
		PerformanceLevel: domain.PerformanceLevel(score),
		Trajectory:       s.trajectory(),
		Abandoned:        abandoned,
		TotalTimeSpent:   totalTimeSpent,
		OccurredAt:       now,
	}
	return []domain.Event{completed}, nil
}

// HasTimedOut reports whether a configured total time limit has elapsed.
// It never forces a transition; detecting callers complete or abandon.
func (s *Session) HasTimedOut() bool {
	if s.timeLimit == nil || s.timeLimit.TotalSeconds <= 0 {
		return false
	}
	return s.now().After(s.startedAt.Add(s.timeLimit.Total()))
}

// RecommendedNextQuestion picks the next question to serve. With adaptive
// learning on, the last three answers steer the difficulty: struggling
// learners get an easier remaining question, thriving ones a harder one.
// Without a match (or with adaptivity off) the cursor question stands.
func (s *Session) RecommendedNextQuestion() (domain.Question, bool) {
	current, ok := s.CurrentQuestion()
	if !ok {
		return domain.Question{}, false
	}
	if !s.adaptive || len(s.answers) == 0 {
		return current, true
	}

	window := s.answers
	if len(window) > adaptiveWindow {
		window = window[len(window)-adaptiveWindow:]
	}
	correct := 0
	for _, a := range window {
		if a.Correct {
			correct++
		}
	}
	ratio := float64(correct) / float64(len(window))

	var desired domain.DifficultyLevel
	switch {
	case ratio < 0.5:
		desired = s.target.Decrease()
	case ratio > 0.8:
		desired = s.target.Increase()
	default:
		return current, true
	}

	for i := s.cursor; i < len(s.questions); i++ {
		if s.questions[i].Difficulty.Equals(desired) {
			return s.questions[i], true
		}
	}
	return current, true
}

// Progress is the answered share of the question list, 0-100.
func (s *Session) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(len(s.answers)) / float64(len(s.questions)) * 100
}

// Score is the running mean of per-question percentage scores, 0-100.
func (s *Session) Score() float64 {
	if len(s.answers) == 0 {
		return 0
	}
	var sum float64
	for _, a := range s.answers {
		sum += a.Score.Percentage()
	}
	return roundTo2(sum / float64(len(s.answers)))
}

// Accuracy is the correct share of answered questions, 0-100.
func (s *Session) Accuracy() float64 {
	if len(s.answers) == 0 {
		return 0
	}
	return roundTo2(float64(s.CorrectAnswersCount()) / float64(len(s.answers)) * 100)
}

// CorrectAnswersCount counts answers graded correct.
func (s *Session) CorrectAnswersCount() int {
	n := 0
	for _, a := range s.answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// AnsweredQuestionCount is the number of distinct questions answered.
func (s *Session) AnsweredQuestionCount() int {
	return len(s.answers)
}

// AverageTimePerQuestion averages recorded per-answer times.
func (s *Session) AverageTimePerQuestion() time.Duration {
	if len(s.answers) == 0 {
		return 0
	}
	var total time.Duration
	for _, a := range s.answers {
		total += a.TimeSpent
	}
	return total / time.Duration(len(s.answers))
}

// TotalTimeSpent is the figure recorded at completion.
func (s *Session) TotalTimeSpent() time.Duration {
	return s.totalTime
}

func (s *Session) trajectory() []domain.TrajectoryPoint {
	points := make([]domain.TrajectoryPoint, 0, len(s.trace))
	for _, rec := range s.trace {
		points = append(points, domain.TrajectoryPoint{
			Order:      rec.Order,
			Difficulty: rec.Difficulty,
			Correct:    rec.Correct,
			Percentage: rec.Percentage,
		})
	}
	return points
}

func (s *Session) expectedQuestionID() string {
	if s.cursor < len(s.questions) {
		return s.questions[s.cursor].ID
	}
	return "(none: all answered)"
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
