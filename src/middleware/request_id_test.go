package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRequestIDRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		requestID := GetRequestID(c)
		if requestID == "" {
			t.Error("expected request_id to be set in context")
		}
		c.String(http.StatusOK, requestID)
	})
	return router
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	router := newRequestIDRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	responseID := w.Header().Get(RequestIDHeader)
	if len(responseID) != 8 {
		t.Errorf("expected request_id length 8, got %d", len(responseID))
	}
	if w.Body.String() != responseID {
		t.Errorf("expected context id %q to match header %q", w.Body.String(), responseID)
	}
}

func TestRequestIDMiddleware_UsesExistingID(t *testing.T) {
	router := newRequestIDRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "custom-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "custom-id" {
		t.Errorf("expected X-Request-ID 'custom-id', got %s", got)
	}
}

func TestRequestIDMiddleware_ReplacesMalformedID(t *testing.T) {
	for _, incoming := range []string{"has space", "bad\"quote", strings.Repeat("a", 65)} {
		router := newRequestIDRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, incoming)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got == incoming || len(got) != 8 {
			t.Errorf("expected generated id for %q, got %q", incoming, got)
		}
	}
}

func TestGetRequestID_ReturnsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("expected empty request_id, got %s", requestID)
	}
}
