package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Session   SessionConfig
	DateRange DateRangeConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds the file locations of the three logical databases.
type DatabaseConfig struct {
	DataDir    string
	Foundation string
	Marketdata string
	Portfolio  string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// SessionConfig holds authentication session settings.
// Key is a base64 fernet key; when empty a key is generated at startup
// and sessions do not survive a restart.
type SessionConfig struct {
	Key     string
	Timeout time.Duration

	// AdminUsername and AdminPassword bootstrap an admin account on
	// startup when both are set and the username does not exist yet.
	AdminUsername string
	AdminPassword string
}

// DateRangeConfig holds defaults for date range filters.
type DateRangeConfig struct {
	MonthsBack    int
	Format        string // layout of form values
	DisplayFormat string // layout of human readable labels
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	timeoutMinutes, err := getEnvAsInt("SESSION_TIMEOUT_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	monthsBack, err := getEnvAsInt("DEFAULT_MONTHS_BACK", 3)
	if err != nil {
		return nil, err
	}
	if monthsBack < 0 {
		return nil, fmt.Errorf("DEFAULT_MONTHS_BACK must not be negative, got %d", monthsBack)
	}

	dataDir := getEnv("DATA_DIR", "./data")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			DataDir:    dataDir,
			Foundation: filepath.Join(dataDir, getEnv("DB_FOUNDATION", "psw_foundation.db")),
			Marketdata: filepath.Join(dataDir, getEnv("DB_MARKETDATA", "psw_marketdata.db")),
			Portfolio:  filepath.Join(dataDir, getEnv("DB_PORTFOLIO", "psw_portfolio.db")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", false),
		},
		Session: SessionConfig{
			Key:           os.Getenv("SESSION_KEY"),
			Timeout:       time.Duration(timeoutMinutes) * time.Minute,
			AdminUsername: os.Getenv("ADMIN_USERNAME"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		DateRange: DateRangeConfig{
			MonthsBack:    monthsBack,
			Format:        getEnv("DATE_FORMAT", "2006-01-02"),
			DisplayFormat: getEnv("DATE_DISPLAY_FORMAT", "Jan 2, 2006"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
