package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/remote"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/response"
)

// ConfigHandler exposes the managed configuration lists.
type ConfigHandler struct {
	state *store.AppState
	sync  *service.SyncService
}

// NewConfigHandler constructs handler.
func NewConfigHandler(state *store.AppState, sync *service.SyncService) *ConfigHandler {
	return &ConfigHandler{state: state, sync: sync}
}

// Get godoc
// @Summary Read a managed configuration list
// @Tags Config
// @Produce json
// @Param key path string true "registeredSubjects or holidays"
// @Success 200 {object} response.Envelope
// @Router /config/{key} [get]
func (h *ConfigHandler) Get(c *gin.Context) {
	switch c.Param("key") {
	case remote.ConfigKeyRegisteredSubjects:
		response.JSON(c, http.StatusOK, h.state.RegisteredSubjects())
	case remote.ConfigKeyHolidays:
		response.JSON(c, http.StatusOK, h.state.Holidays())
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown config key"))
	}
}

// Put godoc
// @Summary Replace a managed configuration list
// @Tags Config
// @Accept json
// @Produce json
// @Param key path string true "registeredSubjects or holidays"
// @Param request body dto.ConfigValueRequest true "New value"
// @Success 200 {object} response.Envelope
// @Router /config/{key} [put]
func (h *ConfigHandler) Put(c *gin.Context) {
	var req dto.ConfigValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON body"))
		return
	}

	switch c.Param("key") {
	case remote.ConfigKeyRegisteredSubjects:
		result, err := h.sync.SaveRegisteredSubjects(c.Request.Context(), req.Subjects)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result)
	case remote.ConfigKeyHolidays:
		result, err := h.sync.SaveHolidays(c.Request.Context(), req.Holidays)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown config key"))
	}
}
