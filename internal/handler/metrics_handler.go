package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
)

// SyncStatusReader reports the sync coordinator state for health probes.
type SyncStatusReader interface {
	Status() dto.SyncStatus
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	sync    SyncStatusReader
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, sync SyncStatusReader) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, sync: sync}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness plus the coordinator state. The process is healthy
// even when offline: the dashboard keeps working from the local snapshot.
func (h *MetricsHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.sync != nil {
		status := h.sync.Status()
		body["online"] = status.Online
		body["pending"] = status.PendingCount
	}
	c.JSON(http.StatusOK, body)
}

// Ready reports readiness: the server is ready once a dataset has been
// loaded from either the remote API or the local snapshot.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.sync != nil && h.sync.Status().LastLoadAt == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
