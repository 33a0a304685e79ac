package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/psycheck/psycheck-api/internal/dto"
	"github.com/psycheck/psycheck-api/internal/models"
	"github.com/psycheck/psycheck-api/internal/repository"
)

// UserService resolves authenticated subjects to local accounts.
type UserService interface {
	// ResolveOrCreate fetches the account for an external subject id,
	// creating it with the baseline credit balance on first contact, and
	// applies the rolling credit refresh.
	ResolveOrCreate(ctx context.Context, subjectID string) (models.User, error)
	Details(ctx context.Context, subjectID string) (dto.UserResponse, error)
}

type userService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewUserService constructs a user service.
func NewUserService(users repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) ResolveOrCreate(ctx context.Context, subjectID string) (models.User, error) {
	user, err := s.users.GetBySubjectID(ctx, subjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now().UTC()
		user = models.User{
			SubjectID:        subjectID,
			Credits:          models.DefaultCredits,
			LastCreditUpdate: now,
		}
		if createErr := s.users.Create(ctx, &user); createErr != nil {
			// A concurrent request may have created the account first;
			// the unique index on subject_id makes the insert fail.
			user, err = s.users.GetBySubjectID(ctx, subjectID)
			if err != nil {
				return models.User{}, createErr
			}
			return s.maybeRefresh(ctx, user)
		}

		s.logger.Info().Str("subject_id", subjectID).Msg("created user account")
		return user, nil
	}
	if err != nil {
		return models.User{}, err
	}

	return s.maybeRefresh(ctx, user)
}

func (s *userService) maybeRefresh(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	if !user.RefreshDue(now) {
		return user, nil
	}

	refreshed, err := s.users.RefreshCredits(ctx, user.ID, now)
	if err != nil {
		return models.User{}, err
	}

	if refreshed {
		s.logger.Info().Uint("user_id", user.ID).Msg("credit balance refreshed")
	}

	// Re-read either way: a concurrent request may have won the refresh.
	return s.users.GetByID(ctx, user.ID)
}

func (s *userService) Details(ctx context.Context, subjectID string) (dto.UserResponse, error) {
	user, err := s.ResolveOrCreate(ctx, subjectID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
