package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

// GridHandler exposes the attendance grid edit endpoints.
type GridHandler struct {
	transitions *service.TransitionService
	sync        *service.SyncService
	pending     PendingReader
}

// PendingReader is the slice of the queue the handler exposes.
type PendingReader interface {
	Items() []models.PendingChange
	Len() int
}

// NewGridHandler constructs handler.
func NewGridHandler(transitions *service.TransitionService, sync *service.SyncService, pending PendingReader) *GridHandler {
	return &GridHandler{transitions: transitions, sync: sync, pending: pending}
}

// Toggle godoc
// @Summary Toggle one attendance cell
// @Tags Attendance
// @Accept json
// @Produce json
// @Param request body dto.ToggleRequest true "Cell edit"
// @Success 200 {object} response.Envelope
// @Router /attendance/toggle [post]
func (h *GridHandler) Toggle(c *gin.Context) {
	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	result, err := h.transitions.Toggle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// BulkApply godoc
// @Summary Mark a lesson slot for every untouched active student
// @Tags Attendance
// @Accept json
// @Produce json
// @Param request body dto.BulkApplyRequest true "Bulk mark"
// @Success 200 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *GridHandler) BulkApply(c *gin.Context) {
	var req dto.BulkApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	result, err := h.transitions.BulkApply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Pending godoc
// @Summary List queued attendance edits
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/pending [get]
func (h *GridHandler) Pending(c *gin.Context) {
	items := h.pending.Items()
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"count": len(items)})
}

// DayConfig godoc
// @Summary Resolved lesson configuration for one class day
// @Tags Lessons
// @Produce json
// @Param classId query string true "Class ID"
// @Param date query string true "ISO date"
// @Success 200 {object} response.Envelope
// @Router /lessons/day-config [get]
func (h *GridHandler) DayConfig(c *gin.Context) {
	classID := c.Query("classId")
	date := c.Query("date")
	if classID == "" || date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId and date required"))
		return
	}
	cfg, err := h.sync.DayConfig(classID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}

// SetDayConfig godoc
// @Summary Replace the lesson configuration of one class day
// @Tags Lessons
// @Accept json
// @Produce json
// @Param request body dto.DayConfigRequest true "Day configuration"
// @Success 200 {object} response.Envelope
// @Router /lessons/day-config [put]
func (h *GridHandler) SetDayConfig(c *gin.Context) {
	var req dto.DayConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	cfg, err := h.sync.SetDayConfig(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}
