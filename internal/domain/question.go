package domain

import (
	"fmt"
	"time"
)

// QuestionType is the closed set of supported question variants.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	SingleChoice   QuestionType = "single_choice"
	TrueFalse      QuestionType = "true_false"
	CodeCompletion QuestionType = "code_completion"
	DragAndDrop    QuestionType = "drag_and_drop"
	FillInTheBlank QuestionType = "fill_in_the_blank"
	Essay          QuestionType = "essay"
	Matching       QuestionType = "matching"
)

// QuestionTypes lists every variant, in a stable order.
func QuestionTypes() []QuestionType {
	return []QuestionType{
		MultipleChoice, SingleChoice, TrueFalse, CodeCompletion,
		DragAndDrop, FillInTheBlank, Essay, Matching,
	}
}

// ParseQuestionType validates a raw type tag.
func ParseQuestionType(raw string) (QuestionType, error) {
	qt := QuestionType(raw)
	for _, known := range QuestionTypes() {
		if qt == known {
			return qt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown question type %q", ErrInvalidQuestion, raw)
}

// AllowsMultipleCorrect reports whether the variant may carry more than one
// correct answer. Capability flags are pure functions of the variant.
func (t QuestionType) AllowsMultipleCorrect() bool {
	switch t {
	case MultipleChoice, DragAndDrop, FillInTheBlank, Matching:
		return true
	default:
		return false
	}
}

// RequiresManualGrading reports whether a human must review submissions.
func (t QuestionType) RequiresManualGrading() bool {
	switch t {
	case Essay, CodeCompletion:
		return true
	default:
		return false
	}
}

// SupportsPartialCredit reports whether the variant can award intermediate scores.
func (t QuestionType) SupportsPartialCredit() bool {
	switch t {
	case MultipleChoice, DragAndDrop, FillInTheBlank, Matching, Essay, CodeCompletion:
		return true
	default:
		return false
	}
}

// ContentKind tags how a content body should be rendered.
type ContentKind string

const (
	ContentPlain    ContentKind = "plain"
	ContentMarkdown ContentKind = "markdown"
	ContentHTML     ContentKind = "html"
	ContentCode     ContentKind = "code"
	ContentLaTeX    ContentKind = "latex"
)

// Content is a rich text body with a render-kind tag and optional render
// metadata (language for code blocks, etc).
type Content struct {
	Text       string            `json:"text"`
	Kind       ContentKind       `json:"kind"`
	RenderMeta map[string]string `json:"renderMeta,omitempty"`
}

// PlainText is shorthand for plain content.
func PlainText(text string) Content {
	return Content{Text: text, Kind: ContentPlain}
}

// Answer is one answer option, owned by its parent question. PartialCredit is
// 100 for a fully correct option, 0 for a plain incorrect one, and an
// intermediate value for partially creditable options of multi-part types.
type Answer struct {
	ID            string   `json:"id"`
	Content       Content  `json:"content"`
	Correct       bool     `json:"correct"`
	PartialCredit float64  `json:"partialCredit"`
	Position      int      `json:"position,omitempty"`
	Feedback      *Content `json:"feedback,omitempty"`
}

// NewAnswer builds a fully correct or plain incorrect option.
func NewAnswer(id string, content Content, correct bool) Answer {
	credit := 0.0
	if correct {
		credit = 100.0
	}
	return Answer{ID: id, Content: content, Correct: correct, PartialCredit: credit}
}

// NewPartialAnswer builds an option worth an intermediate credit percentage.
func NewPartialAnswer(id string, content Content, credit float64) (Answer, error) {
	if credit <= 0 || credit >= 100 {
		return Answer{}, fmt.Errorf("%w: partial credit %.2f must be in (0,100)", ErrInvalidQuestion, credit)
	}
	return Answer{ID: id, Content: content, PartialCredit: credit}, nil
}

// Validate checks the credit/correctness coupling.
func (a Answer) Validate() error {
	if a.PartialCredit < 0 || a.PartialCredit > 100 {
		return fmt.Errorf("%w: answer %s partial credit %.2f out of range", ErrInvalidQuestion, a.ID, a.PartialCredit)
	}
	if a.Correct && a.PartialCredit != 100 {
		return fmt.Errorf("%w: correct answer %s must carry 100%% credit", ErrInvalidQuestion, a.ID)
	}
	if !a.Correct && a.PartialCredit == 100 {
		return fmt.Errorf("%w: answer %s carries full credit but is not marked correct", ErrInvalidQuestion, a.ID)
	}
	return nil
}

// Question is a quiz question with its answer options. Content is immutable
// except through the mutators below, which bump UpdatedAt.
type Question struct {
	ID          string          `json:"id"`
	Content     Content         `json:"content"`
	Type        QuestionType    `json:"type"`
	Difficulty  DifficultyLevel `json:"-"`
	Weight      float64         `json:"weight"` // scoring weight, (0, 100]
	Explanation *Content        `json:"explanation,omitempty"`
	Hint        *Content        `json:"hint,omitempty"`
	Category    string          `json:"category,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Answers     []Answer        `json:"answers"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate enforces the per-type answer and correct-answer cardinality rules.
func (q *Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if q.Content.Text == "" {
		return fmt.Errorf("%w: question %s has empty content", ErrInvalidQuestion, q.ID)
	}
	if _, err := ParseQuestionType(string(q.Type)); err != nil {
		return err
	}
	if q.Weight <= 0 || q.Weight > 100 {
		return fmt.Errorf("%w: question %s weight %.2f must be in (0,100]", ErrInvalidQuestion, q.ID, q.Weight)
	}
	for _, a := range q.Answers {
		if err := a.Validate(); err != nil {
			return err
		}
	}

	total := len(q.Answers)
	correct := q.CorrectAnswerCount()
	switch q.Type {
	case TrueFalse:
		if total != 2 || correct != 1 {
			return fmt.Errorf("%w: question %s: true/false needs exactly 2 answers with 1 correct (got %d/%d)",
				ErrInvalidQuestion, q.ID, correct, total)
		}
	case SingleChoice:
		if total < 2 || correct != 1 {
			return fmt.Errorf("%w: question %s: single choice needs >=2 answers with exactly 1 correct (got %d/%d)",
				ErrInvalidQuestion, q.ID, correct, total)
		}
	case MultipleChoice, DragAndDrop, FillInTheBlank, Matching:
		if total < 2 || correct < 1 {
			return fmt.Errorf("%w: question %s: %s needs >=2 answers with >=1 correct (got %d/%d)",
				ErrInvalidQuestion, q.ID, q.Type, correct, total)
		}
	case Essay, CodeCompletion:
		// Manually graded types carry no answer key.
	}
	return nil
}

// CorrectAnswerCount counts answers marked fully correct.
func (q *Question) CorrectAnswerCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// CorrectAnswerIDs returns the ids of fully correct answers, in option order.
func (q *Question) CorrectAnswerIDs() []string {
	ids := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.Correct {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// AnswerByID looks up an option by id.
func (q *Question) AnswerByID(id string) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}

// UpdateContent replaces the question body.
func (q *Question) UpdateContent(content Content) {
	q.Content = content
	q.touch()
}

// SetDifficulty replaces the difficulty level.
func (q *Question) SetDifficulty(level DifficultyLevel) {
	q.Difficulty = level
	q.touch()
}

// AddTag appends a tag if not already present.
func (q *Question) AddTag(tag string) {
	for _, t := range q.Tags {
		if t == tag {
			return
		}
	}
	q.Tags = append(q.Tags, tag)
	q.touch()
}

// RemoveTag drops a tag if present.
func (q *Question) RemoveTag(tag string) {
	for i, t := range q.Tags {
		if t == tag {
			q.Tags = append(q.Tags[:i], q.Tags[i+1:]...)
			q.touch()
			return
		}
	}
}

// HasTag reports tag membership.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddAnswer appends an option.
func (q *Question) AddAnswer(a Answer) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, exists := q.AnswerByID(a.ID); exists {
		return fmt.Errorf("%w: duplicate answer id %s", ErrInvalidQuestion, a.ID)
	}
	q.Answers = append(q.Answers, a)
	q.touch()
	return nil
}

// RemoveAnswer drops an option by id.
func (q *Question) RemoveAnswer(id string) error {
	for i, a := range q.Answers {
		if a.ID == id {
			q.Answers = append(q.Answers[:i], q.Answers[i+1:]...)
			q.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: answer %s", ErrQuestionNotFound, id)
}

func (q *Question) touch() {
	q.UpdatedAt = time.Now().UTC()
}

// Quiz is the aggregate produced by the generator: a fixed question list plus
// the context it was generated under.
type Quiz struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Questions        []Question      `json:"questions"`
	Categories       []string        `json:"categories,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
	TargetDifficulty DifficultyLevel `json:"-"`
	TimeLimit        *TimeLimit      `json:"timeLimit,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}
