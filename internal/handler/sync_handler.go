package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

// SyncHandler exposes the sync coordinator endpoints.
type SyncHandler struct {
	state *store.AppState
	sync  *service.SyncService
}

// NewSyncHandler constructs handler.
func NewSyncHandler(state *store.AppState, sync *service.SyncService) *SyncHandler {
	return &SyncHandler{state: state, sync: sync}
}

// Bootstrap godoc
// @Summary Load the dataset and return the full view model
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /bootstrap [get]
func (h *SyncHandler) Bootstrap(c *gin.Context) {
	result, err := h.sync.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"load":                result,
		"classes":             h.state.Classes(),
		"students":            h.state.Students(),
		"bimesters":           h.state.Bimesters(),
		"holidays":            h.state.Holidays(),
		"registered_subjects": h.state.RegisteredSubjects(),
		"pending":             h.state.Pending.Items(),
		"status":              h.sync.Status(),
	})
}

// Load godoc
// @Summary Reload the dataset from the remote store
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/load [post]
func (h *SyncHandler) Load(c *gin.Context) {
	result, err := h.sync.Load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Flush godoc
// @Summary Push the pending attendance queue to the remote store
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/flush [post]
func (h *SyncHandler) Flush(c *gin.Context) {
	result, err := h.sync.FlushAttendance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Status godoc
// @Summary Sync coordinator introspection
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.sync.Status())
}

// SetOnline godoc
// @Summary Flip the connectivity flag
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body object true "Flag {online}"
// @Success 200 {object} response.Envelope
// @Router /sync/online [put]
func (h *SyncHandler) SetOnline(c *gin.Context) {
	var req struct {
		Online *bool `json:"online"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Online == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "online flag required"))
		return
	}
	h.sync.SetOnline(*req.Online)
	response.JSON(c, http.StatusOK, h.sync.Status())
}
