package mock

import (
	"context"
	"time"

	"github.com/campusdesk/admissions/src/repositories"
)

// SessionRepository is a mock implementation of repositories.SessionRevocationRepository
type SessionRepository struct {
	RevokeFunc        func(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevokedFunc     func(ctx context.Context, sessionID string) (bool, error)
	DeleteExpiredFunc func(ctx context.Context) (int64, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewSessionRepository creates a new mock revocation store
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *SessionRepository) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	m.Calls["Revoke"] = append(m.Calls["Revoke"], sessionID)
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, expiresAt)
	}
	return nil
}

func (m *SessionRepository) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	m.Calls["IsRevoked"] = append(m.Calls["IsRevoked"], sessionID)
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, sessionID)
	}
	return false, nil
}

func (m *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	m.Calls["DeleteExpired"] = append(m.Calls["DeleteExpired"], nil)
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

var _ repositories.SessionRevocationRepository = (*SessionRepository)(nil)
