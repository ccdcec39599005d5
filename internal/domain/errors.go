package domain

import "errors"

var (
	// ErrQuestionNotFound indicates a referenced question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotFound is returned when a quiz session does not exist.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionCompleted rejects mutations of a finished session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrQuestionOrder rejects answers submitted out of cursor order.
	ErrQuestionOrder = errors.New("question answered out of order")
	// ErrNoCandidates means quiz generation found no questions matching the criteria.
	ErrNoCandidates = errors.New("no questions match the generation criteria")
	// ErrEmptySubmission rejects an answer submission with no answers.
	ErrEmptySubmission = errors.New("empty answer submission")
	// ErrInvalidSubmission rejects a submission whose shape does not fit the question type.
	ErrInvalidSubmission = errors.New("invalid answer submission")
	// ErrInvalidTimeSpent rejects elapsed times outside [0s, 3600s].
	ErrInvalidTimeSpent = errors.New("time spent out of range")
	// ErrInvalidScore rejects inconsistent points/max/percentage combinations.
	ErrInvalidScore = errors.New("invalid score")
	// ErrInvalidQuestion rejects questions violating type cardinality rules.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidCriteria rejects malformed generation criteria.
	ErrInvalidCriteria = errors.New("invalid generation criteria")
	// ErrInvalidTimeLimit rejects a time limit with no bound set.
	ErrInvalidTimeLimit = errors.New("time limit needs at least one bound")
)

// ValidationResult carries the outcome of a non-raising validation pass.
// Errors make the result invalid; warnings are advisory and left to the
// caller to act on.
type ValidationResult struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// AddError records a blocking problem and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning records an advisory observation without invalidating the result.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// OKValidation is a passing result with no findings.
func OKValidation() ValidationResult {
	return ValidationResult{Valid: true}
}
