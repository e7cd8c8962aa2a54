package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/product-catalog/internal/auth"
	"github.com/product-catalog/internal/catalog"
	"github.com/product-catalog/internal/monitor"
)

// Handler contains all API handlers
type Handler struct {
	auth    *auth.Authority
	catalog *catalog.Service
	monitor *monitor.HealthMonitor
	log     *slog.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	authority *auth.Authority,
	catalogSvc *catalog.Service,
	healthMonitor *monitor.HealthMonitor,
	log *slog.Logger,
) *Handler {
	return &Handler{
		auth:    authority,
		catalog: catalogSvc,
		monitor: healthMonitor,
		log:     log,
	}
}

// HealthResponse reports service and database health.
type HealthResponse struct {
	Status         string         `json:"status"`
	Database       monitor.Status `json:"database"`
	MonitorRunning bool           `json:"monitor_running"`
	NextCheck      *time.Time     `json:"next_check,omitempty"`
}

// Health godoc
// @Summary Health check
// @Description Report the result of the latest database probe
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Database unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.monitor.Status()

	resp := HealthResponse{
		Status:         "ok",
		Database:       status,
		MonitorRunning: h.monitor.IsRunning(),
		NextCheck:      h.monitor.NextCheck(),
	}
	code := http.StatusOK
	if !status.OK {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, resp)
}
