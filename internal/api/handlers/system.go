package handlers

import (
	"net/http"

	"github.com/psw4/psw-backend/internal/api/response"
	"github.com/psw4/psw-backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// Health checks connectivity of the foundation, marketdata and portfolio databases.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthStatus when every database responds
// Error: 503 Service Unavailable with HealthStatus naming the failing databases
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.systemService.CheckHealth(r.Context())
	if status.Status != "healthy" {
		response.RespondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	response.RespondJSON(w, http.StatusOK, status)
}
