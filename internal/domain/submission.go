package domain

// Submission carries a user's raw answer values for one question. The
// interpretation of Values depends on the question type: answer option ids
// for choice-based types, a single "true"/"false" literal for true/false,
// and a single free-text body for essay and code completion.
type Submission struct {
	QuestionID string         `json:"questionId"`
	Values     []string       `json:"values"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// HintsUsed reads the hint counter from submission metadata, if present.
func (s Submission) HintsUsed() int {
	v, ok := s.Metadata["hints_used"]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// ManualScore reads an externally supplied grading percentage for manually
// graded types. The second return is false when no grader has reviewed the
// submission yet.
func (s Submission) ManualScore() (float64, bool) {
	v, ok := s.Metadata["manual_score"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
