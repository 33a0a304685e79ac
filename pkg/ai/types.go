package ai

import "context"

// ScoreInput contains the artefacts needed to grade an essay.
type ScoreInput struct {
	Question string
	Essay    string
}

// Criterion is a single rubric criterion graded by the scorer.
type Criterion struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}

// ContentSection groups the content-related rubric criteria.
type ContentSection struct {
	Conclusion string      `json:"content_conclusion"`
	Criterias  []Criterion `json:"criterias"`
}

// LanguageSection groups the language-related rubric criteria.
type LanguageSection struct {
	Conclusion string      `json:"language_conclusion"`
	Criterias  []Criterion `json:"criterias"`
}

// RubricResult is the validated structured reply returned by the scoring backend.
type RubricResult struct {
	GeneralConclusion string          `json:"general_conclusion"`
	Content           ContentSection  `json:"content"`
	Language          LanguageSection `json:"language"`
	Suggestions       []string        `json:"suggestions"`
}

// Scorer describes an AI model capable of grading an essay against the rubric.
type Scorer interface {
	Score(ctx context.Context, input ScoreInput) (RubricResult, error)
}
