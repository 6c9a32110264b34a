package service

import (
	"context"

	"github.com/psw4/psw-backend/internal/database"
	"github.com/psw4/psw-backend/internal/model"
)

// SystemService handles system-related operations
type SystemService struct {
	registry *database.Registry
}

// NewSystemService creates a new SystemService
func NewSystemService(registry *database.Registry) *SystemService {
	return &SystemService{
		registry: registry,
	}
}

// CheckHealth pings every logical database. The status is "healthy" only
// when all of them respond.
func (s *SystemService) CheckHealth(ctx context.Context) model.HealthStatus {
	results := s.registry.HealthCheck(ctx)

	status := model.HealthStatus{
		Status:    "healthy",
		Databases: make(map[string]string, len(results)),
	}
	for name, err := range results {
		if err != nil {
			status.Status = "unhealthy"
			status.Databases[string(name)] = err.Error()
			continue
		}
		status.Databases[string(name)] = "connected"
	}
	return status
}
