package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/psycheck/psycheck-api/internal/models"
)

// UserRepository provides access to user accounts and their credit ledger.
type UserRepository interface {
	GetBySubjectID(ctx context.Context, subjectID string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	// DebitCredit decrements the balance by one only while it is positive.
	// Returns false when the balance was already exhausted.
	DebitCredit(ctx context.Context, id uint) (bool, error)
	// RefreshCredits resets the balance to the baseline when the rolling
	// window has elapsed. Idempotent within a window.
	RefreshCredits(ctx context.Context, id uint, now time.Time) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetBySubjectID(ctx context.Context, subjectID string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

// DebitCredit issues a single conditional UPDATE so that concurrent requests
// across service instances cannot drive the balance below zero.
func (r *userRepository) DebitCredit(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND credits > 0", id).
		UpdateColumn("credits", gorm.Expr("credits - 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *userRepository) RefreshCredits(ctx context.Context, id uint, now time.Time) (bool, error) {
	cutoff := now.Add(-models.CreditWindow)
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND last_credit_update < ?", id, cutoff).
		UpdateColumns(map[string]interface{}{
			"credits":            models.DefaultCredits,
			"last_credit_update": now,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
