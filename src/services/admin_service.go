package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// dummyPasswordHash is compared against when no usable account matches,
// so every failed login costs one bcrypt comparison
var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("admissions-no-such-admin"), bcrypt.DefaultCost)
	return hash
})

// AdminService handles admin user operations
type AdminService struct {
	repo      repositories.AdminRepository
	analytics *AnalyticsService
	logger    zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo repositories.AdminRepository, analytics *AnalyticsService) *AdminService {
	return &AdminService{
		repo:      repo,
		analytics: analytics,
		logger:    logging.NewLogger("admin"),
	}
}

// CreateAdminUser creates a new admin user with hashed password
func (as *AdminService) CreateAdminUser(ctx context.Context, username, password string) (*models.AdminUser, error) {
	if len(username) < 1 || len(username) > 50 {
		return nil, errors.New("username must be between 1 and 50 characters")
	}
	if password == "" {
		return nil, errors.New("password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	if err := as.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return admin, nil
}

// SeedDefaultAdmin creates the admin account unless one with this username exists
func (as *AdminService) SeedDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := as.repo.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin %q: %w", username, err)
	}

	if _, err := as.CreateAdminUser(ctx, username, password); err != nil {
		// Another instance seeded it first
		if errors.Is(err, repositories.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}

	as.logger.Info().Str("admin", username).Msg("Default admin created")
	return true, nil
}

// Authenticate verifies username and password.
// Unknown user, inactive account and wrong password are indistinguishable.
func (as *AdminService) Authenticate(ctx context.Context, username, password string) (*models.AdminUser, error) {
	admin, err := as.repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin == nil || !admin.IsActive {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
		as.logger.Warn().Str("admin", username).Msg("Admin login failed")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		as.logger.Warn().Str("admin", username).Msg("Admin login failed")
		return nil, ErrInvalidCredentials
	}

	if err := as.repo.UpdateLastLogin(ctx, admin.ID); err != nil {
		as.logger.Warn().Err(err).Str("admin", username).Msg("Failed to update last_login")
	} else {
		now := time.Now().UTC()
		admin.LastLogin = &now
	}

	as.logger.Info().Str("admin", username).Msg("Admin logged in")
	if as.analytics != nil {
		as.analytics.TrackAdminLogin(ctx, admin.ID.String())
	}

	return admin, nil
}

// GetAdminByID retrieves an admin user by ID
func (as *AdminService) GetAdminByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	admin, err := as.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}
