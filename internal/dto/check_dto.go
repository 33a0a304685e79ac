package dto

import (
	"encoding/json"
	"time"

	"github.com/psycheck/psycheck-api/internal/models"
	"github.com/psycheck/psycheck-api/pkg/ai"
)

// CheckEssayRequest is the payload for submitting an essay for evaluation.
// Length bounds match the limits enforced by the grading rubric.
type CheckEssayRequest struct {
	Question string `json:"question" validate:"required,min=10,max=3000"`
	Essay    string `json:"essay" validate:"required,min=50,max=6000"`
}

// SectionResult holds the aggregated outcome for one rubric section.
type SectionResult struct {
	Score      float64        `json:"score"`
	Conclusion string         `json:"conclusion,omitempty"`
	Criterias  []ai.Criterion `json:"criterias"`
}

// EvaluationResult is the complete structured outcome persisted with a test.
// CompleteScore is always derived from the section scores and the length
// bucket, never taken from the scoring backend.
type EvaluationResult struct {
	CompleteScore     float64       `json:"complete_score"`
	GeneralConclusion string        `json:"general_conclusion"`
	LengthConclusion  string        `json:"length_conclusion"`
	Content           SectionResult `json:"content"`
	Language          SectionResult `json:"language"`
	Suggestions       []string      `json:"suggestions"`
}

// TestResponse represents a stored evaluation to API consumers.
type TestResponse struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	Question  string          `json:"question"`
	Essay     string          `json:"essay"`
	Results   json.RawMessage `json:"results"`
}

// NewTestResponse builds a response DTO from a model.
func NewTestResponse(test models.Test) TestResponse {
	return TestResponse{
		ID:        test.ID,
		UserID:    test.UserID,
		CreatedAt: test.CreatedAt,
		Question:  test.Question,
		Essay:     test.Essay,
		Results:   json.RawMessage(test.Results),
	}
}

// NewTestResponses converts a slice of models.
func NewTestResponses(tests []models.Test) []TestResponse {
	responses := make([]TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewTestResponse(test))
	}
	return responses
}
