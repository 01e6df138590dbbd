package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

// ExportHandler exposes asynchronous report exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create godoc
// @Summary Schedule a report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.ExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /reports/export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}
	job, err := h.exports.Enqueue(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job)
}

// Get godoc
// @Summary Export status; serves the file once READY
// @Tags Reports
// @Produce json
// @Param id path string true "Export job ID"
// @Param download query bool false "Serve the rendered file"
// @Success 200 {object} response.Envelope
// @Router /reports/export/{id} [get]
func (h *ExportHandler) Get(c *gin.Context) {
	id := c.Param("id")
	job, err := h.exports.Job(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if c.Query("download") == "true" {
		path, err := h.exports.FilePath(id)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.FileAttachment(path, job.FileName)
		return
	}
	response.JSON(c, http.StatusOK, job)
}
