package domain

import "time"

// QuestionRecord is the flat storage shape of a Question. Conversion is
// explicit and total in both directions; storage layers never reach into
// entity internals.
type QuestionRecord struct {
	ID                 string            `json:"id"`
	Text               string            `json:"text"`
	Kind               string            `json:"kind"`
	RenderMeta         map[string]string `json:"renderMeta,omitempty"`
	Type               string            `json:"type"`
	Difficulty         int               `json:"difficulty"`
	DifficultyCategory string            `json:"difficultyCategory,omitempty"`
	Weight             float64           `json:"weight"`
	Explanation        *ContentRecord    `json:"explanation,omitempty"`
	Hint               *ContentRecord    `json:"hint,omitempty"`
	Category           string            `json:"category,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	Answers            []AnswerRecord    `json:"answers,omitempty"`
	Metadata           map[string]any    `json:"metadata,omitempty"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// ContentRecord is the flat form of a Content body.
type ContentRecord struct {
	Text       string            `json:"text"`
	Kind       string            `json:"kind"`
	RenderMeta map[string]string `json:"renderMeta,omitempty"`
}

// AnswerRecord is the flat form of an answer option.
type AnswerRecord struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	Kind          string         `json:"kind"`
	Correct       bool           `json:"correct"`
	PartialCredit float64        `json:"partialCredit"`
	Position      int            `json:"position,omitempty"`
	Feedback      *ContentRecord `json:"feedback,omitempty"`
}

// FlattenQuestion converts a Question to its storage record.
func FlattenQuestion(q Question) QuestionRecord {
	rec := QuestionRecord{
		ID:                 q.ID,
		Text:               q.Content.Text,
		Kind:               string(q.Content.Kind),
		RenderMeta:         q.Content.RenderMeta,
		Type:               string(q.Type),
		Difficulty:         q.Difficulty.Level(),
		DifficultyCategory: q.Difficulty.Category(),
		Weight:             q.Weight,
		Explanation:        flattenContent(q.Explanation),
		Hint:               flattenContent(q.Hint),
		Category:           q.Category,
		Tags:               append([]string(nil), q.Tags...),
		Metadata:           q.Metadata,
		UpdatedAt:          q.UpdatedAt,
	}
	for _, a := range q.Answers {
		rec.Answers = append(rec.Answers, AnswerRecord{
			ID:            a.ID,
			Text:          a.Content.Text,
			Kind:          string(a.Content.Kind),
			Correct:       a.Correct,
			PartialCredit: a.PartialCredit,
			Position:      a.Position,
			Feedback:      flattenContent(a.Feedback),
		})
	}
	return rec
}

// BuildQuestion rebuilds a Question from its storage record and validates
// the result against the type cardinality rules.
func BuildQuestion(rec QuestionRecord) (Question, error) {
	qType, err := ParseQuestionType(rec.Type)
	if err != nil {
		return Question{}, err
	}
	q := Question{
		ID:          rec.ID,
		Content:     Content{Text: rec.Text, Kind: contentKind(rec.Kind), RenderMeta: rec.RenderMeta},
		Type:        qType,
		Difficulty:  NewCategoryDifficulty(rec.Difficulty, rec.DifficultyCategory),
		Weight:      rec.Weight,
		Explanation: buildContent(rec.Explanation),
		Hint:        buildContent(rec.Hint),
		Category:    rec.Category,
		Tags:        append([]string(nil), rec.Tags...),
		Metadata:    rec.Metadata,
		UpdatedAt:   rec.UpdatedAt,
	}
	for _, a := range rec.Answers {
		q.Answers = append(q.Answers, Answer{
			ID:            a.ID,
			Content:       Content{Text: a.Text, Kind: contentKind(a.Kind)},
			Correct:       a.Correct,
			PartialCredit: a.PartialCredit,
			Position:      a.Position,
			Feedback:      buildContent(a.Feedback),
		})
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

func flattenContent(c *Content) *ContentRecord {
	if c == nil {
		return nil
	}
	return &ContentRecord{Text: c.Text, Kind: string(c.Kind), RenderMeta: c.RenderMeta}
}

func buildContent(rec *ContentRecord) *Content {
	if rec == nil {
		return nil
	}
	return &Content{Text: rec.Text, Kind: contentKind(rec.Kind), RenderMeta: rec.RenderMeta}
}

func contentKind(raw string) ContentKind {
	switch ContentKind(raw) {
	case ContentMarkdown, ContentHTML, ContentCode, ContentLaTeX:
		return ContentKind(raw)
	default:
		return ContentPlain
	}
}
