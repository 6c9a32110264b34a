package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/psw4/psw-backend/internal/api/middleware"
	"github.com/rs/zerolog"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dividend/statistics", nil)
	w := httptest.NewRecorder()
	middleware.Logger(log)(next).ServeHTTP(w, req)

	out := buf.String()
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("Expected status in log line, got %s", out)
	}
	if !strings.Contains(out, `"path":"/api/dividend/statistics"`) {
		t.Errorf("Expected path in log line, got %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("Expected info level, got %s", out)
	}
}

func TestLogger_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	middleware.Logger(zerolog.New(&buf))(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("Expected error level, got %s", buf.String())
	}
}
