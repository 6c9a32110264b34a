package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns 200 when all databases are connected", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		handler := NewSystemHandler(testutil.NewTestSystemService(t, dbs))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.HealthStatus
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}
		if len(response.Databases) != 3 {
			t.Errorf("Expected 3 databases, got %d", len(response.Databases))
		}
	})

	t.Run("returns 503 when a database is closed", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		handler := NewSystemHandler(testutil.NewTestSystemService(t, dbs))
		testutil.CloseDB(t, dbs.Foundation)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}

		var response model.HealthStatus
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "unhealthy" {
			t.Errorf("Expected status 'unhealthy', got '%s'", response.Status)
		}
		if response.Databases["foundation"] == "connected" {
			t.Error("Expected foundation to report an error")
		}
	})
}
