package session

import (
	"fmt"
	"time"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/scoring"
)

// Snapshot is the flat, storage-friendly shape of a session. Conversion in
// both directions is explicit and total; no field is reached by reflection.
type Snapshot struct {
	ID               string                  `json:"id"`
	UserID           string                  `json:"userId"`
	Questions        []domain.QuestionRecord `json:"questions"`
	Answers          []AnswerSnapshot        `json:"answers,omitempty"`
	Trace            []TraceRecord           `json:"trace,omitempty"`
	Cursor           int                     `json:"cursor"`
	TargetDifficulty int                     `json:"targetDifficulty"`
	TargetCategory   string                  `json:"targetCategory,omitempty"`
	TimeLimit        *domain.TimeLimit       `json:"timeLimit,omitempty"`
	Adaptive         bool                    `json:"adaptive"`
	Practice         bool                    `json:"practice"`
	StartedAt        time.Time               `json:"startedAt"`
	CompletedAt      *time.Time              `json:"completedAt,omitempty"`
	TotalTimeSeconds float64                 `json:"totalTimeSeconds"`
	Completed        bool                    `json:"completed"`
	Abandoned        bool                    `json:"abandoned"`
}

// AnswerSnapshot is the flat form of a grading record.
type AnswerSnapshot struct {
	QuestionID           string                  `json:"questionId"`
	Values               []string                `json:"values"`
	Metadata             map[string]any          `json:"metadata,omitempty"`
	Points               float64                 `json:"points"`
	MaxPoints            float64                 `json:"maxPoints"`
	Percentage           float64                 `json:"percentage"`
	Correct              bool                    `json:"correct"`
	TimeSpentSeconds     float64                 `json:"timeSpentSeconds"`
	AnsweredAt           time.Time               `json:"answeredAt"`
	Validation           domain.ValidationResult `json:"validation"`
	PendingManualGrading bool                    `json:"pendingManualGrading,omitempty"`
}

// Snapshot flattens the session for storage.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:               s.id,
		UserID:           s.userID,
		Cursor:           s.cursor,
		TargetDifficulty: s.target.Level(),
		TargetCategory:   s.target.Category(),
		TimeLimit:        s.timeLimit,
		Adaptive:         s.adaptive,
		Practice:         s.practice,
		StartedAt:        s.startedAt,
		CompletedAt:      s.completedAt,
		TotalTimeSeconds: s.totalTime.Seconds(),
		Completed:        s.completed,
		Abandoned:        s.abandoned,
		Trace:            append([]TraceRecord(nil), s.trace...),
	}
	for _, q := range s.questions {
		snap.Questions = append(snap.Questions, domain.FlattenQuestion(q))
	}
	for _, a := range s.answers {
		snap.Answers = append(snap.Answers, AnswerSnapshot{
			QuestionID:           a.QuestionID,
			Values:               append([]string(nil), a.Submission.Values...),
			Metadata:             a.Submission.Metadata,
			Points:               a.Score.Points(),
			MaxPoints:            a.Score.MaxPoints(),
			Percentage:           a.Score.Percentage(),
			Correct:              a.Correct,
			TimeSpentSeconds:     a.TimeSpent.Seconds(),
			AnsweredAt:           a.AnsweredAt,
			Validation:           a.Validation,
			PendingManualGrading: a.PendingManualGrading,
		})
	}
	return snap
}

// Restore rebuilds a session from its snapshot. Stored scores are verified
// for points/percentage consistency; a corrupt snapshot is rejected rather
// than coerced.
func Restore(snap Snapshot, scorer *scoring.Scorer) (*Session, error) {
	return RestoreWithClock(snap, scorer, time.Now)
}

// RestoreWithClock pins the clock for deterministic tests.
func RestoreWithClock(snap Snapshot, scorer *scoring.Scorer, now func() time.Time) (*Session, error) {
	if snap.ID == "" || snap.UserID == "" {
		return nil, fmt.Errorf("%w: snapshot missing identity", domain.ErrSessionNotFound)
	}
	s := &Session{
		id:          snap.ID,
		userID:      snap.UserID,
		cursor:      snap.Cursor,
		target:      domain.NewCategoryDifficulty(snap.TargetDifficulty, snap.TargetCategory),
		timeLimit:   snap.TimeLimit,
		adaptive:    snap.Adaptive,
		practice:    snap.Practice,
		startedAt:   snap.StartedAt,
		completedAt: snap.CompletedAt,
		totalTime:   time.Duration(snap.TotalTimeSeconds * float64(time.Second)),
		completed:   snap.Completed,
		abandoned:   snap.Abandoned,
		trace:       append([]TraceRecord(nil), snap.Trace...),
		scorer:      scorer,
		now:         now,
	}
	for _, rec := range snap.Questions {
		q, err := domain.BuildQuestion(rec)
		if err != nil {
			return nil, fmt.Errorf("restore session %s: %w", snap.ID, err)
		}
		s.questions = append(s.questions, q)
	}
	for _, rec := range snap.Answers {
		score, err := domain.ReconstructScore(rec.Points, rec.MaxPoints, rec.Percentage)
		if err != nil {
			return nil, fmt.Errorf("restore session %s answer %s: %w", snap.ID, rec.QuestionID, err)
		}
		s.answers = append(s.answers, QuestionAnswer{
			QuestionID: rec.QuestionID,
			Submission: domain.Submission{
				QuestionID: rec.QuestionID,
				Values:     append([]string(nil), rec.Values...),
				Metadata:   rec.Metadata,
			},
			Score:                score,
			Correct:              rec.Correct,
			TimeSpent:            time.Duration(rec.TimeSpentSeconds * float64(time.Second)),
			AnsweredAt:           rec.AnsweredAt,
			Validation:           rec.Validation,
			PendingManualGrading: rec.PendingManualGrading,
		})
	}
	if s.cursor < 0 || s.cursor > len(s.questions) {
		return nil, fmt.Errorf("%w: cursor %d outside question list", domain.ErrSessionNotFound, s.cursor)
	}
	return s, nil
}
