package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusdesk/admissions/src/database"
	"github.com/gin-gonic/gin"
)

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return response
}

func TestHandleHealth_Success(t *testing.T) {
	database.WithTestDB(t, func(tdb *database.TestDB) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

		handler := NewHealthHandler(database.NewDatabaseFromPool(tdb.Pool), ServiceInfo{Name: "admissions"})
		handler.HandleHealth(c)

		assertStatusCode(t, w, http.StatusOK)
		response := decodeJSON(t, w)
		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if response["database"] != "connected" {
			t.Errorf("expected database 'connected', got %v", response["database"])
		}
		if _, ok := response["db_latency"]; !ok {
			t.Error("expected db_latency field")
		}
	})
}

func TestHandleHealth_DBError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	// nil pool = DB error
	handler := NewHealthHandler(database.NewDatabaseFromPool(nil), ServiceInfo{Name: "admissions"})
	handler.HandleHealth(c)

	assertStatusCode(t, w, http.StatusServiceUnavailable)
	response := decodeJSON(t, w)
	if response["status"] != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %v", response["status"])
	}
}

func TestHandleReady(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/ready")
	assertStatusCode(t, w, http.StatusOK)
	if decodeJSON(t, w)["ready"] != true {
		t.Error("expected ready true")
	}

	gin.SetMode(gin.TestMode)
	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	NewHealthHandler(fakeHealth{err: errors.New("down")}, ServiceInfo{}).HandleReady(c)
	assertStatusCode(t, w, http.StatusServiceUnavailable)
}

func TestHandleInfo(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/info")
	assertStatusCode(t, w, http.StatusOK)
	response := decodeJSON(t, w)
	if response["service"] != "admissions" {
		t.Errorf("expected service 'admissions', got %v", response["service"])
	}
	if response["mailer"] != "fake" {
		t.Errorf("expected mailer 'fake', got %v", response["mailer"])
	}
}
