package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/koperasi/backend/internal/application/settings"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// SettingsHandler handles application setting endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Upsert godoc
// @ID           upsertSetting
// @Summary      Create or update a setting
// @Description  Penalty settings are validated before being stored
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settingsapp.UpsertSettingRequest true "Setting key and value"
// @Success      200 {object} APIResponse[settingsapp.SettingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) Upsert(c *gin.Context) {
	var req settingsapp.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	setting, err := h.settingsService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// Get godoc
// @ID           getSetting
// @Summary      Get a setting by key
// @Tags         settings
// @Produce      json
// @Param        key path string true "Setting key"
// @Success      200 {object} APIResponse[settingsapp.SettingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Setting key is required")
		return
	}

	setting, err := h.settingsService.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// List godoc
// @ID           listSettings
// @Summary      List all settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[[]settingsapp.SettingResponse]
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	items, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}
