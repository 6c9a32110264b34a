package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST", "DATA_DIR", "DB_FOUNDATION", "DB_MARKETDATA", "DB_PORTFOLIO",
		"LOG_LEVEL", "LOG_PRETTY", "SESSION_KEY", "SESSION_TIMEOUT_MINUTES",
		"DATE_FORMAT", "DATE_DISPLAY_FORMAT", "DEFAULT_MONTHS_BACK", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:5001", cfg.Server.Addr)
	assert.Equal(t, filepath.Join("./data", "psw_portfolio.db"), cfg.Database.Portfolio)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 60*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 3, cfg.DateRange.MonthsBack)
	assert.Equal(t, "Jan 2, 2006", cfg.DateRange.DisplayFormat)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DATA_DIR", "/var/lib/psw")
	t.Setenv("DB_FOUNDATION", "f.db")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("SESSION_TIMEOUT_MINUTES", "15")
	t.Setenv("DEFAULT_MONTHS_BACK", "6")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, filepath.Join("/var/lib/psw", "f.db"), cfg.Database.Foundation)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 15*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 6, cfg.DateRange.MonthsBack)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Run("non numeric timeout", func(t *testing.T) {
		t.Setenv("SESSION_TIMEOUT_MINUTES", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative months back", func(t *testing.T) {
		t.Setenv("SESSION_TIMEOUT_MINUTES", "")
		t.Setenv("DEFAULT_MONTHS_BACK", "-1")
		_, err := Load()
		assert.Error(t, err)
	})
}
