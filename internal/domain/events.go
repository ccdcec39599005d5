package domain

import "time"

// Event is a tagged record describing something the engine did. Events are
// returned from mutating operations and handed to an external sink; they are
// informational and never part of the scoring contract.
type Event interface {
	Kind() string
}

// SessionStarted is emitted when a session is created.
type SessionStarted struct {
	SessionID     string    `json:"sessionId"`
	UserID        string    `json:"userId"`
	QuestionCount int       `json:"questionCount"`
	Difficulty    int       `json:"difficulty"`
	Adaptive      bool      `json:"adaptive"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (SessionStarted) Kind() string { return "session.started" }

// QuestionAnswered is emitted per graded answer.
type QuestionAnswered struct {
	SessionID  string        `json:"sessionId"`
	UserID     string        `json:"userId"`
	QuestionID string        `json:"questionId"`
	Correct    bool          `json:"correct"`
	Percentage float64       `json:"percentage"`
	TimeSpent  time.Duration `json:"timeSpent"`
	Difficulty int           `json:"difficulty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

func (QuestionAnswered) Kind() string { return "session.question_answered" }

// SessionCompleted is emitted once when a session reaches its terminal state.
type SessionCompleted struct {
	SessionID        string            `json:"sessionId"`
	UserID           string            `json:"userId"`
	Score            float64           `json:"score"`
	Accuracy         float64           `json:"accuracy"`
	PerformanceLevel string            `json:"performanceLevel"`
	Trajectory       []TrajectoryPoint `json:"trajectory"`
	Abandoned        bool              `json:"abandoned"`
	TotalTimeSpent   time.Duration     `json:"totalTimeSpent"`
	OccurredAt       time.Time         `json:"occurredAt"`
}

func (SessionCompleted) Kind() string { return "session.completed" }

// TrajectoryPoint is one step of the learning trajectory derived from the
// adaptive trace: how the learner performed at each difficulty encountered.
type TrajectoryPoint struct {
	Order      int     `json:"order"`
	Difficulty int     `json:"difficulty"`
	Correct    bool    `json:"correct"`
	Percentage float64 `json:"percentage"`
}

// PerformanceLevel buckets a 0-100 score into the reporting bands.
func PerformanceLevel(score float64) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 80:
		return "good"
	case score >= 70:
		return "satisfactory"
	case score >= 60:
		return "needs_improvement"
	default:
		return "poor"
	}
}
