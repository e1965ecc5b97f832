package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/campusdesk/admissions/src/repositories/mock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newSeededAdminRepo returns a mock repo backed by a single-slot map
func newSeededAdminRepo(t *testing.T) (*mock.AdminRepository, *AdminService, map[string]*models.AdminUser) {
	t.Helper()

	admins := make(map[string]*models.AdminUser)
	repo := mock.NewAdminRepository()
	repo.CreateFunc = func(ctx context.Context, admin *models.AdminUser) error {
		if _, ok := admins[admin.Username]; ok {
			return repositories.ErrDuplicate
		}
		copied := *admin
		admins[admin.Username] = &copied
		return nil
	}
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.AdminUser, error) {
		admin, ok := admins[username]
		if !ok {
			return nil, repositories.ErrNotFound
		}
		copied := *admin
		return &copied, nil
	}

	svc := NewAdminService(repo, nil)
	created, err := svc.SeedDefaultAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, created)

	return repo, svc, admins
}

func TestSeedDefaultAdmin_OnlyOnce(t *testing.T) {
	repo, svc, admins := newSeededAdminRepo(t)

	created, err := svc.SeedDefaultAdmin(context.Background(), "admin", "something-else")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, admins, 1)
	assert.Len(t, repo.Calls["Create"], 1)
}

func TestSeedDefaultAdmin_LookupError(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.AdminUser, error) {
		return nil, errors.New("db down")
	}
	svc := NewAdminService(repo, nil)

	_, err := svc.SeedDefaultAdmin(context.Background(), "admin", "admin123")
	assert.Error(t, err)
	assert.Empty(t, repo.Calls["Create"])
}

func TestAuthenticate_DefaultPassword(t *testing.T) {
	repo, svc, _ := newSeededAdminRepo(t)

	admin, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.NotNil(t, admin.LastLogin)
	assert.Len(t, repo.Calls["UpdateLastLogin"], 1)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo, svc, admins := newSeededAdminRepo(t)
	before := *admins["admin"]

	admin, err := svc.Authenticate(context.Background(), "admin", "wrong")
	assert.Nil(t, admin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, repo.Calls["UpdateLastLogin"])
	assert.Equal(t, before, *admins["admin"])
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	_, svc, _ := newSeededAdminRepo(t)

	_, err := svc.Authenticate(context.Background(), "root", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_InactiveAdmin(t *testing.T) {
	_, svc, admins := newSeededAdminRepo(t)
	admins["admin"].IsActive = false

	_, err := svc.Authenticate(context.Background(), "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.AdminUser, error) {
		return nil, errors.New("connection refused")
	}
	svc := NewAdminService(repo, nil)

	admin, err := svc.Authenticate(context.Background(), "admin", "admin123")
	assert.Nil(t, admin)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestDummyPasswordHash_CostsLikeARealHash(t *testing.T) {
	cost, err := bcrypt.Cost(dummyPasswordHash())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestAuthenticate_LastLoginFailureIsNotFatal(t *testing.T) {
	repo, svc, _ := newSeededAdminRepo(t)
	repo.UpdateLastLoginFunc = func(ctx context.Context, adminID uuid.UUID) error {
		return errors.New("timeout")
	}

	admin, err := svc.Authenticate(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Nil(t, admin.LastLogin)
}

func TestGetAdminByID_NotFound(t *testing.T) {
	svc := NewAdminService(mock.NewAdminRepository(), nil)

	_, err := svc.GetAdminByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestCreateAdminUser_RejectsEmptyPassword(t *testing.T) {
	repo := mock.NewAdminRepository()
	svc := NewAdminService(repo, nil)

	_, err := svc.CreateAdminUser(context.Background(), "admin", "")
	assert.Error(t, err)
	assert.Empty(t, repo.Calls["Create"])
}
