package dto

import (
	"time"

	"github.com/psycheck/psycheck-api/internal/models"
)

// UserResponse represents an account to API consumers.
type UserResponse struct {
	ID               uint      `json:"id"`
	SubjectID        string    `json:"subject_id"`
	Credits          int       `json:"credits"`
	CreatedAt        time.Time `json:"created_at"`
	LastCreditUpdate time.Time `json:"last_credit_update"`
}

// NewUserResponse builds a response DTO from a model.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		SubjectID:        user.SubjectID,
		Credits:          user.Credits,
		CreatedAt:        user.CreatedAt,
		LastCreditUpdate: user.LastCreditUpdate,
	}
}
