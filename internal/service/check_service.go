package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/psycheck/psycheck-api/internal/dto"
	"github.com/psycheck/psycheck-api/internal/models"
	"github.com/psycheck/psycheck-api/internal/observability"
	"github.com/psycheck/psycheck-api/internal/repository"
	"github.com/psycheck/psycheck-api/pkg/ai"
)

// ErrCreditsExhausted indicates the caller has no evaluations left.
var ErrCreditsExhausted = errors.New("credits exhausted")

// ErrEssayTooShort indicates the essay failed the length pre-filter on the short side.
var ErrEssayTooShort = errors.New("essay too short")

// ErrEssayTooLong indicates the essay failed the length pre-filter on the long side.
var ErrEssayTooLong = errors.New("essay too long")

// ErrScoringBackend indicates the scoring backend failed, timed out or
// returned a malformed reply. No credits are spent and nothing is persisted.
var ErrScoringBackend = errors.New("scoring backend failure")

// ErrResultNotStored indicates persistence failed after a scoring call had
// already succeeded, so the expensive result was lost.
var ErrResultNotStored = errors.New("evaluation result not stored")

// ErrTestNotFound indicates the evaluation record cannot be located.
var ErrTestNotFound = errors.New("test not found")

// ErrTestForbidden indicates the caller does not own the evaluation record.
var ErrTestForbidden = errors.New("forbidden")

// CheckService runs the essay evaluation pipeline and serves stored results.
type CheckService interface {
	// CheckEssay runs auth-resolved evaluation end to end. When the length
	// pre-filter fails, the returned error wraps ErrEssayTooShort or
	// ErrEssayTooLong and the response carries the zero-score outcome.
	CheckEssay(ctx context.Context, subjectID string, payload dto.CheckEssayRequest) (dto.TestResponse, *dto.EvaluationResult, error)
	History(ctx context.Context, subjectID string) ([]dto.TestResponse, error)
	GetTest(ctx context.Context, subjectID string, id uint) (dto.TestResponse, error)
}

type checkService struct {
	users     UserService
	userRepo  repository.UserRepository
	tests     repository.TestRepository
	scorer    ai.Scorer
	events    *EvaluationEvents
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCheckService constructs the evaluation orchestrator.
func NewCheckService(users UserService, userRepo repository.UserRepository, tests repository.TestRepository, scorer ai.Scorer, events *EvaluationEvents, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) CheckService {
	return &checkService{
		users:     users,
		userRepo:  userRepo,
		tests:     tests,
		scorer:    scorer,
		events:    events,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "check_service").Logger(),
	}
}

func (s *checkService) CheckEssay(ctx context.Context, subjectID string, payload dto.CheckEssayRequest) (dto.TestResponse, *dto.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestResponse{}, nil, err
	}

	question := s.sanitizer.Sanitize(payload.Question)
	essay := s.sanitizer.Sanitize(payload.Essay)

	user, err := s.users.ResolveOrCreate(ctx, subjectID)
	if err != nil {
		return dto.TestResponse{}, nil, err
	}

	if !user.HasCredits() {
		observability.EvaluationOutcomes().WithLabelValues("credits_exhausted").Inc()
		return dto.TestResponse{}, nil, ErrCreditsExhausted
	}

	// Length pre-filter runs before the scoring backend so automatic fails
	// never spend an external call or a credit.
	bucket := ClassifyLength(essay)
	if bucket.AutoFail() {
		failed := FailedLengthResult(bucket)
		observability.EvaluationOutcomes().WithLabelValues(bucket.String()).Inc()
		if bucket == BucketTooLong {
			return dto.TestResponse{}, &failed, ErrEssayTooLong
		}
		return dto.TestResponse{}, &failed, ErrEssayTooShort
	}

	rubric, err := s.scorer.Score(ctx, ai.ScoreInput{Question: question, Essay: essay})
	if err != nil {
		observability.EvaluationOutcomes().WithLabelValues("backend_failure").Inc()
		return dto.TestResponse{}, nil, fmt.Errorf("%w: %v", ErrScoringBackend, err)
	}

	results := AggregateScores(rubric, bucket)

	test, err := s.persistResult(ctx, user, question, essay, results)
	if err != nil {
		return dto.TestResponse{}, nil, err
	}

	// The record is durable; a failed debit is logged, never rolled back.
	debited, err := s.userRepo.DebitCredit(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Uint("test_id", test.ID).Msg("credit debit failed after evaluation persisted")
	} else if !debited {
		s.logger.Warn().Uint("user_id", user.ID).Uint("test_id", test.ID).Msg("credit balance exhausted concurrently, evaluation stands")
	}

	s.events.Publish(EvaluationEvent{
		TestID:        test.ID,
		UserID:        user.ID,
		CompleteScore: results.CompleteScore,
		CreatedAt:     test.CreatedAt,
	})

	s.invalidateHistory(ctx, user.ID)
	observability.EvaluationOutcomes().WithLabelValues("completed").Inc()

	return dto.NewTestResponse(test), &results, nil
}

// persistResult stores the evaluation record. One retry: the scoring call
// already happened, so losing the result is worse than a second write.
func (s *checkService) persistResult(ctx context.Context, user models.User, question, essay string, results dto.EvaluationResult) (models.Test, error) {
	payload, err := json.Marshal(results)
	if err != nil {
		return models.Test{}, fmt.Errorf("%w: %v", ErrResultNotStored, err)
	}

	test := models.Test{
		UserID:   user.ID,
		Question: question,
		Essay:    essay,
		Results:  datatypes.JSON(payload),
	}

	if err := s.tests.Create(ctx, &test); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("storing evaluation failed, retrying once")
		test.ID = 0
		if err := s.tests.Create(ctx, &test); err != nil {
			observability.EvaluationOutcomes().WithLabelValues("storage_failure").Inc()
			return models.Test{}, fmt.Errorf("%w: %v", ErrResultNotStored, err)
		}
	}

	return test, nil
}

func (s *checkService) History(ctx context.Context, subjectID string) ([]dto.TestResponse, error) {
	user, err := s.users.ResolveOrCreate(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	cacheKey := historyCacheKey(user.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var responses []dto.TestResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &responses); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", user.ID).Msg("history cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read history cache")
		}
	}

	tests, err := s.tests.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	responses := dto.NewTestResponses(tests)

	if s.cache != nil {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store history cache")
			}
		}
	}

	return responses, nil
}

func (s *checkService) GetTest(ctx context.Context, subjectID string, id uint) (dto.TestResponse, error) {
	user, err := s.users.ResolveOrCreate(ctx, subjectID)
	if err != nil {
		return dto.TestResponse{}, err
	}

	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TestResponse{}, ErrTestNotFound
		}
		return dto.TestResponse{}, err
	}

	if test.UserID != user.ID {
		return dto.TestResponse{}, ErrTestForbidden
	}

	return dto.NewTestResponse(test), nil
}

func (s *checkService) invalidateHistory(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, historyCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate history cache")
	}
}

func historyCacheKey(userID uint) string {
	return fmt.Sprintf("history:user:%d", userID)
}
