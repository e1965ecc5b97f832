package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/campusdesk/admissions/src/models"
	"github.com/google/uuid"
)

// Sentinel errors returned by repository implementations
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint would be violated
	ErrDuplicate = errors.New("duplicate record")
)

// StudentRepository defines the interface for student data access
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.Student, error)

	// Approve sets approved = true inside a transaction holding a row lock.
	// wasApproved reports the flag value before the update.
	Approve(ctx context.Context, id uuid.UUID, at time.Time) (student *models.Student, wasApproved bool, err error)
}

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, adminID uuid.UUID) error
}

// SessionRevocationRepository stores revoked session ids until they expire
type SessionRevocationRepository interface {
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
