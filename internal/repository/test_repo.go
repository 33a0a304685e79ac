package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/psycheck/psycheck-api/internal/models"
)

// TestRepository stores immutable evaluation records. There is deliberately
// no update or delete operation: a test is a fact record.
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id uint) (models.Test, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Test, error)
}

type testRepository struct {
	db *gorm.DB
}

// NewTestRepository constructs a test repository.
func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *testRepository) GetByID(ctx context.Context, id uint) (models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return models.Test{}, err
	}

	return test, nil
}

func (r *testRepository) ListByUser(ctx context.Context, userID uint) ([]models.Test, error) {
	var tests []models.Test
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tests).Error; err != nil {
		return nil, err
	}

	return tests, nil
}
