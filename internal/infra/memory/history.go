package memory

import (
	"context"
	"sync"

	"adaptive-quiz-service/internal/difficulty"
)

// maxHistoryPerUser bounds the retained attempt window per learner.
const maxHistoryPerUser = 200

// History is an in-memory implementation of app.PerformanceHistory. It
// derives the learner summary from the retained attempt window: skill from
// overall accuracy, confidence from sample size, improvement from the
// recent-vs-older accuracy delta.
type History struct {
	mu       sync.RWMutex
	attempts map[string][]difficulty.Attempt
}

func NewHistory() *History {
	return &History{attempts: make(map[string][]difficulty.Attempt)}
}

func (h *History) Record(_ context.Context, userID string, attempts ...difficulty.Attempt) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	window := append(h.attempts[userID], attempts...)
	if len(window) > maxHistoryPerUser {
		window = window[len(window)-maxHistoryPerUser:]
	}
	h.attempts[userID] = window
	return nil
}

func (h *History) Summary(_ context.Context, userID string) (difficulty.PerformanceSummary, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	window := h.attempts[userID]
	if len(window) == 0 {
		return difficulty.PerformanceSummary{}, nil
	}

	correct := 0
	for _, a := range window {
		if a.Correct {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(window))

	confidence := float64(len(window)) / 20.0
	if confidence > 1 {
		confidence = 1
	}

	return difficulty.PerformanceSummary{
		SkillLevel:      1 + int(accuracy*9),
		Confidence:      confidence,
		ImprovementRate: h.improvementLocked(window),
		HasData:         true,
	}, nil
}

// Attempts returns a copy of the retained window, newest last.
func (h *History) Attempts(_ context.Context, userID string) ([]difficulty.Attempt, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]difficulty.Attempt(nil), h.attempts[userID]...), nil
}

// improvementLocked compares accuracy in the newer half of the window
// against the older half.
func (h *History) improvementLocked(window []difficulty.Attempt) float64 {
	if len(window) < 4 {
		return 0
	}
	half := len(window) / 2
	older, newer := window[:half], window[half:]
	return accuracyOf(newer) - accuracyOf(older)
}

func accuracyOf(attempts []difficulty.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	correct := 0
	for _, a := range attempts {
		if a.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(attempts))
}
