package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/campusdesk/admissions/src/logging"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/campusdesk/admissions/src/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// SessionCookieName holds the signed admin session token
	SessionCookieName = "admin_session"

	// AdminContextKey is the gin context key for the authenticated admin
	AdminContextKey = "admin"

	// LoginPath is where unauthenticated requests are sent
	LoginPath = "/admin"

	sessionIssuer      = "admissions"
	minSessionKeyBytes = 32
)

var (
	// ErrInvalidSession covers malformed, expired or badly signed tokens
	ErrInvalidSession = errors.New("invalid session")

	// ErrSessionRevoked indicates the session was logged out
	ErrSessionRevoked = errors.New("session revoked")
)

// AdminLookup resolves the admin a session belongs to
type AdminLookup interface {
	GetAdminByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
}

// SessionClaims are the JWT claims carried by the session cookie.
// The session id is the registered jti claim.
type SessionClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionConfig configures the session manager
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// SessionManager issues, validates and revokes admin sessions
type SessionManager struct {
	secret      []byte
	ttl         time.Duration
	secure      bool
	revocations repositories.SessionRevocationRepository
	admins      AdminLookup
	now         func() time.Time
	logger      zerolog.Logger
}

// NewSessionManager creates a session manager
func NewSessionManager(cfg SessionConfig, revocations repositories.SessionRevocationRepository, admins AdminLookup) (*SessionManager, error) {
	if len(cfg.Secret) < minSessionKeyBytes {
		return nil, fmt.Errorf("session secret must be at least %d characters long", minSessionKeyBytes)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	return &SessionManager{
		secret:      []byte(cfg.Secret),
		ttl:         cfg.TTL,
		secure:      cfg.CookieSecure,
		revocations: revocations,
		admins:      admins,
		now:         time.Now,
		logger:      logging.NewLogger("session"),
	}, nil
}

// Issue creates a signed session token for admin
func (sm *SessionManager) Issue(admin *models.AdminUser) (string, *SessionClaims, error) {
	now := sm.now()
	claims := &SessionClaims{
		AdminID:  admin.ID.String(),
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return token, claims, nil
}

// parse verifies signature and expiry without consulting the revocation store
func (sm *SessionManager) parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return sm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(sm.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrInvalidSession)
	}
	return claims, nil
}

// Validate checks the token and that its session has not been revoked
func (sm *SessionManager) Validate(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := sm.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := sm.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke invalidates the session until its natural expiry
func (sm *SessionManager) Revoke(ctx context.Context, claims *SessionClaims) error {
	expiresAt := sm.now().Add(sm.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return sm.revocations.Revoke(ctx, claims.ID, expiresAt)
}

// Login issues a session for admin and sets the cookie
func (sm *SessionManager) Login(c *gin.Context, admin *models.AdminUser) error {
	token, _, err := sm.Issue(admin)
	if err != nil {
		return err
	}
	sm.setCookie(c, token, int(sm.ttl.Seconds()))
	return nil
}

// Logout revokes the current session, if any, and clears the cookie
func (sm *SessionManager) Logout(c *gin.Context) {
	defer sm.setCookie(c, "", -1)

	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return
	}
	claims, err := sm.parse(token)
	if err != nil {
		return
	}
	if err := sm.Revoke(c.Request.Context(), claims); err != nil {
		sm.logger.Error().Err(err).Str("admin", claims.Username).Msg("Failed to revoke session")
		return
	}
	sm.logger.Info().Str("admin", claims.Username).Msg("Admin logged out")
}

func (sm *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", sm.secure, true)
}

// Authenticate resolves the admin for the request's session cookie
func (sm *SessionManager) Authenticate(c *gin.Context) (*models.AdminUser, error) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil, ErrInvalidSession
	}

	claims, err := sm.Validate(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}

	adminID, err := uuid.Parse(claims.AdminID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad admin id", ErrInvalidSession)
	}

	admin, err := sm.admins.GetAdminByID(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			return nil, fmt.Errorf("%w: admin no longer exists", ErrInvalidSession)
		}
		return nil, fmt.Errorf("failed to load session admin: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrInvalidSession
	}
	return admin, nil
}

// RequireAdmin redirects to the login page unless the request carries a valid session.
// Store failures answer 503 and leave the cookie in place.
func (sm *SessionManager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := sm.Authenticate(c)
		if err != nil {
			if !errors.Is(err, ErrInvalidSession) && !errors.Is(err, ErrSessionRevoked) {
				sm.logger.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("Session check failed")
				c.String(http.StatusServiceUnavailable, "Service Unavailable")
				c.Abort()
				return
			}
			sm.setCookie(c, "", -1)
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.Set(AdminContextKey, admin)
		c.Next()
	}
}

// CurrentAdmin returns the admin set by RequireAdmin
func CurrentAdmin(c *gin.Context) *models.AdminUser {
	if v, ok := c.Get(AdminContextKey); ok {
		if admin, ok := v.(*models.AdminUser); ok {
			return admin
		}
	}
	return nil
}
