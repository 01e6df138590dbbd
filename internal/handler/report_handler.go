package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

// ReportHandler exposes the attendance reporting endpoints.
type ReportHandler struct {
	stats *service.StatsService
}

// NewReportHandler constructs handler.
func NewReportHandler(stats *service.StatsService) *ReportHandler {
	return &ReportHandler{stats: stats}
}

// Bimester godoc
// @Summary Per-student bimester attendance report
// @Tags Reports
// @Produce json
// @Param classId query string true "Class ID"
// @Param bimesterId query string true "Bimester ID"
// @Success 200 {object} response.Envelope
// @Router /reports/bimesters [get]
func (h *ReportHandler) Bimester(c *gin.Context) {
	classID := c.Query("classId")
	bimesterID := c.Query("bimesterId")
	if classID == "" || bimesterID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId and bimesterId required"))
		return
	}
	report, err := h.stats.BimesterReport(c.Request.Context(), classID, bimesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ClassMonth godoc
// @Summary Class month attendance grid summary
// @Tags Reports
// @Produce json
// @Param classId query string true "Class ID"
// @Param month query string true "Month YYYY-MM"
// @Success 200 {object} response.Envelope
// @Router /reports/class-month [get]
func (h *ReportHandler) ClassMonth(c *gin.Context) {
	classID := c.Query("classId")
	month := c.Query("month")
	if classID == "" || month == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId and month required"))
		return
	}
	summary, err := h.stats.ClassMonth(c.Request.Context(), classID, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Subjects godoc
// @Summary Attendance grouped by resolved subject
// @Tags Reports
// @Produce json
// @Param classId query string true "Class ID"
// @Param bimesterId query string false "Bimester ID, annual when absent"
// @Success 200 {object} response.Envelope
// @Router /reports/subjects [get]
func (h *ReportHandler) Subjects(c *gin.Context) {
	classID := c.Query("classId")
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId required"))
		return
	}
	stats, err := h.stats.SubjectReport(c.Request.Context(), classID, c.Query("bimesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// AtRisk godoc
// @Summary Active students below the critical attendance threshold
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/at-risk [get]
func (h *ReportHandler) AtRisk(c *gin.Context) {
	ranked, err := h.stats.AtRisk(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranked)
}

// Top godoc
// @Summary Highest attendance percentages among active students
// @Tags Reports
// @Produce json
// @Param n query int false "Result cap, default 10"
// @Success 200 {object} response.Envelope
// @Router /reports/top [get]
func (h *ReportHandler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("n", "10"))
	ranked, err := h.stats.TopPerformers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranked)
}
