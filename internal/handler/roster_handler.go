package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

// RosterHandler exposes student and class management.
type RosterHandler struct {
	state *store.AppState
	sync  *service.SyncService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(state *store.AppState, sync *service.SyncService) *RosterHandler {
	return &RosterHandler{state: state, sync: sync}
}

// ListStudents godoc
// @Summary List students, optionally scoped to one class
// @Tags Roster
// @Produce json
// @Param classId query string false "Class ID"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *RosterHandler) ListStudents(c *gin.Context) {
	if classID := c.Query("classId"); classID != "" {
		response.JSON(c, http.StatusOK, h.state.StudentsByClass(classID))
		return
	}
	response.JSON(c, http.StatusOK, h.state.Students())
}

// SaveStudent godoc
// @Summary Create or update a student
// @Tags Roster
// @Accept json
// @Produce json
// @Param request body dto.SaveStudentRequest true "Student"
// @Success 200 {object} response.Envelope
// @Router /students [post]
func (h *RosterHandler) SaveStudent(c *gin.Context) {
	var req dto.SaveStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	result, err := h.sync.SaveStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// DeleteStudent godoc
// @Summary Delete a student and their attendance
// @Tags Roster
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *RosterHandler) DeleteStudent(c *gin.Context) {
	result, err := h.sync.DeleteStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ListClasses godoc
// @Summary List classes
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *RosterHandler) ListClasses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.state.Classes(), map[string]interface{}{
		"selected": h.state.SelectedClass(),
	})
}

// SaveClass godoc
// @Summary Create or update a class
// @Tags Roster
// @Accept json
// @Produce json
// @Param request body dto.SaveClassRequest true "Class"
// @Success 200 {object} response.Envelope
// @Router /classes [post]
func (h *RosterHandler) SaveClass(c *gin.Context) {
	var req dto.SaveClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	result, err := h.sync.SaveClass(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// DeleteClass godoc
// @Summary Delete a class, its students and their attendance
// @Tags Roster
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [delete]
func (h *RosterHandler) DeleteClass(c *gin.Context) {
	result, err := h.sync.DeleteClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// SelectClass godoc
// @Summary Change the selected class scope
// @Tags Roster
// @Accept json
// @Produce json
// @Param request body object true "Selection {class_id}"
// @Success 200 {object} response.Envelope
// @Router /classes/selected [put]
func (h *RosterHandler) SelectClass(c *gin.Context) {
	var req struct {
		ClassID string `json:"class_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ClassID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class_id required"))
		return
	}
	if err := h.sync.SelectClass(req.ClassID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"selected": req.ClassID})
}
