package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/campusdesk/admissions/src/middleware"
	"github.com/campusdesk/admissions/src/models"
	"github.com/campusdesk/admissions/src/repositories"
	"github.com/campusdesk/admissions/src/repositories/mock"
	"github.com/campusdesk/admissions/src/services"
	"github.com/campusdesk/admissions/src/templates"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Test helpers for handler tests

const (
	testSessionSecret = "test-secret-test-secret-test-secret"
	testCSRFToken     = "5f0c6a4e-8d1b-4c35-9f43-0c1f3b0c2a11"
)

// fakeMailer records notifications
type fakeMailer struct {
	mu   sync.Mutex
	sent []services.Notification
	err  error
}

func (m *fakeMailer) Name() string { return "fake" }

func (m *fakeMailer) Send(ctx context.Context, n services.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeHealth is a HealthChecker returning err
type fakeHealth struct{ err error }

func (f fakeHealth) Health(ctx context.Context) error { return f.err }

// testServer is a fully wired router backed by in-memory mocks
type testServer struct {
	router   *gin.Engine
	students *mock.StudentStore
	admins   *mock.AdminRepository
	mailer   *fakeMailer
	revoked  map[string]time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	studentRepo, store := mock.NewStudentRepositoryWithStore()

	adminRepo := mock.NewAdminRepository()
	var seeded *models.AdminUser
	adminRepo.CreateFunc = func(ctx context.Context, admin *models.AdminUser) error {
		copied := *admin
		seeded = &copied
		return nil
	}
	adminRepo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.AdminUser, error) {
		if seeded == nil || seeded.Username != username {
			return nil, repositories.ErrNotFound
		}
		copied := *seeded
		return &copied, nil
	}
	adminRepo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
		if seeded == nil || seeded.ID != id {
			return nil, repositories.ErrNotFound
		}
		copied := *seeded
		return &copied, nil
	}

	ts := &testServer{
		students: store,
		admins:   adminRepo,
		mailer:   &fakeMailer{},
		revoked:  make(map[string]time.Time),
	}

	sessionRepo := mock.NewSessionRepository()
	sessionRepo.RevokeFunc = func(ctx context.Context, sessionID string, expiresAt time.Time) error {
		ts.revoked[sessionID] = expiresAt
		return nil
	}
	sessionRepo.IsRevokedFunc = func(ctx context.Context, sessionID string) (bool, error) {
		_, ok := ts.revoked[sessionID]
		return ok, nil
	}

	adminService := services.NewAdminService(adminRepo, nil)
	if _, err := adminService.SeedDefaultAdmin(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	sessions, err := middleware.NewSessionManager(middleware.SessionConfig{
		Secret: testSessionSecret,
		TTL:    time.Hour,
	}, sessionRepo, adminService)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	dispatcher := services.NewNotificationDispatcher(ts.mailer, time.Second)
	routes := Routes{
		Registration: NewRegistrationHandler(services.NewRegistrationService(studentRepo, nil)),
		Admin:        NewAdminHandler(adminService, sessions),
		Panel: NewPanelHandler(services.NewApprovalService(studentRepo, dispatcher, nil, services.ApprovalOptions{
			RenotifyOnReapproval: true,
		})),
		Health:   NewHealthHandler(fakeHealth{}, ServiceInfo{Name: "admissions", Version: "test", Mailer: "fake"}),
		Sessions: sessions,
	}

	ts.router = gin.New()
	ts.router.SetHTMLTemplate(templates.MustLoadPages())
	routes.Register(ts.router)
	return ts
}

// do sends req through the router
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// get issues a GET with optional cookies
func (ts *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.do(req)
}

// postForm submits form values with a valid CSRF token pair
func (ts *testServer) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	form.Set(middleware.CSRFFieldName, testCSRFToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: testCSRFToken})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.do(req)
}

// login signs in with the given password and returns the session cookie
func (ts *testServer) login(t *testing.T, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	w := ts.postForm("/admin", url.Values{"username": {"admin"}, "password": {password}})
	return w, findCookie(w, middleware.SessionCookieName)
}

// findCookie returns the named cookie set by the response, or nil
func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// assertStatusCode checks if response status code matches expected
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expectedCode int) {
	t.Helper()
	if w.Code != expectedCode {
		t.Errorf("expected status %d, got %d: %s", expectedCode, w.Code, w.Body.String())
	}
}

// assertRedirect checks for a 302 to location
func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatusCode(t, w, http.StatusFound)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("expected redirect to %s, got %s", location, got)
	}
}

var errMailRelayDown = errors.New("mail relay down")
