package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/psycheck/psycheck-api/internal/models"
)

// memUserRepo mirrors the conditional-update semantics of the real repository.
type memUserRepo struct {
	users   map[string]*models.User
	nextID  uint
	creates int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}, nextID: 1}
}

func (m *memUserRepo) GetBySubjectID(ctx context.Context, subjectID string) (models.User, error) {
	if user, ok := m.users[subjectID]; ok {
		return *user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.users[user.SubjectID]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = m.nextID
	m.nextID++
	m.creates++
	clone := *user
	m.users[user.SubjectID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return *user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memUserRepo) DebitCredit(ctx context.Context, id uint) (bool, error) {
	for _, user := range m.users {
		if user.ID == id && user.Credits > 0 {
			user.Credits--
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) RefreshCredits(ctx context.Context, id uint, now time.Time) (bool, error) {
	cutoff := now.Add(-models.CreditWindow)
	for _, user := range m.users {
		if user.ID == id && user.LastCreditUpdate.Before(cutoff) {
			user.Credits = models.DefaultCredits
			user.LastCreditUpdate = now
			return true, nil
		}
	}
	return false, nil
}

func TestResolveOrCreateCreatesAccountLazily(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	user, err := svc.ResolveOrCreate(context.Background(), "user_abc")
	require.NoError(t, err)
	require.Equal(t, "user_abc", user.SubjectID)
	require.Equal(t, models.DefaultCredits, user.Credits)
	require.False(t, user.LastCreditUpdate.IsZero())
	require.Equal(t, 1, repo.creates)
}

func TestResolveOrCreateReturnsExistingAccount(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	first, err := svc.ResolveOrCreate(context.Background(), "user_abc")
	require.NoError(t, err)

	second, err := svc.ResolveOrCreate(context.Background(), "user_abc")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.creates)
}

func TestResolveOrCreateRefreshesStaleCredits(t *testing.T) {
	repo := newMemUserRepo()
	stale := &models.User{ID: 1, SubjectID: "user_abc", Credits: 0, LastCreditUpdate: time.Now().Add(-25 * time.Hour)}
	repo.users["user_abc"] = stale
	repo.nextID = 2
	svc := NewUserService(repo, zerolog.Nop())

	user, err := svc.ResolveOrCreate(context.Background(), "user_abc")
	require.NoError(t, err)
	require.Equal(t, models.DefaultCredits, user.Credits)
	require.WithinDuration(t, time.Now(), user.LastCreditUpdate, time.Minute)
}

func TestResolveOrCreateRefreshIsIdempotentWithinWindow(t *testing.T) {
	repo := newMemUserRepo()
	stale := &models.User{ID: 1, SubjectID: "user_abc", Credits: 0, LastCreditUpdate: time.Now().Add(-25 * time.Hour)}
	repo.users["user_abc"] = stale
	repo.nextID = 2
	svc := NewUserService(repo, zerolog.Nop())

	refreshed, err := svc.ResolveOrCreate(context.Background(), "user_abc")
	require.NoError(t, err)
	require.Equal(t, models.DefaultCredits, refreshed.Credits)

	// Spend one credit, then resolve again inside the same window: the
	// balance must not be reset a second time.
	ok, err := repo.DebitCredit(context.Background(), refreshed.ID)
	require.NoError(t, err)
	require.True(t, ok)

	again, err := svc.ResolveOrCreate(context.Background(), "user_abc")
	require.NoError(t, err)
	require.Equal(t, models.DefaultCredits-1, again.Credits)
}

func TestDetailsReturnsResponseDTO(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	details, err := svc.Details(context.Background(), "user_abc")
	require.NoError(t, err)
	require.Equal(t, "user_abc", details.SubjectID)
	require.Equal(t, models.DefaultCredits, details.Credits)
}
