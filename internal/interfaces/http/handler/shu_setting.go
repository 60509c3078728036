package handler

import (
	"github.com/gin-gonic/gin"
	shuapp "github.com/koperasi/backend/internal/application/shu"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// ShuSettingHandler handles SHU percentage setting endpoints
type ShuSettingHandler struct {
	BaseHandler
	settingService *shuapp.SettingService
}

// NewShuSettingHandler creates a new ShuSettingHandler
func NewShuSettingHandler(settingService *shuapp.SettingService) *ShuSettingHandler {
	return &ShuSettingHandler{settingService: settingService}
}

// Create godoc
// @ID           createShuSetting
// @Summary      Create a SHU percentage setting
// @Description  Both split levels must each sum to exactly 100 percent
// @Tags         shu-settings
// @Accept       json
// @Produce      json
// @Param        request body shuapp.CreateSettingRequest true "Setting details"
// @Success      201 {object} APIResponse[shuapp.SettingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/settings [post]
func (h *ShuSettingHandler) Create(c *gin.Context) {
	var req shuapp.CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	setting, err := h.settingService.CreateSetting(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, setting)
}

// List godoc
// @ID           listShuSettings
// @Summary      List SHU percentage settings
// @Tags         shu-settings
// @Produce      json
// @Param        fiscal_year query int false "Fiscal year filter"
// @Param        is_active query bool false "Active filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]shuapp.SettingResponse]
// @Security     BearerAuth
// @Router       /shu/settings [get]
func (h *ShuSettingHandler) List(c *gin.Context) {
	var filter shuapp.SettingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.settingService.ListSettings(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getShuSettingById
// @Summary      Get a SHU percentage setting
// @Tags         shu-settings
// @Produce      json
// @Param        id path string true "Setting ID" format(uuid)
// @Success      200 {object} APIResponse[shuapp.SettingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/settings/{id} [get]
func (h *ShuSettingHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid setting ID format")
		return
	}

	setting, err := h.settingService.GetSetting(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// Update godoc
// @ID           updateShuSetting
// @Summary      Update a SHU percentage setting
// @Description  Settings referenced by a distribution can no longer be changed
// @Tags         shu-settings
// @Accept       json
// @Produce      json
// @Param        id path string true "Setting ID" format(uuid)
// @Param        request body shuapp.UpdateSettingRequest true "Setting fields"
// @Success      200 {object} APIResponse[shuapp.SettingResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/settings/{id} [put]
func (h *ShuSettingHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid setting ID format")
		return
	}

	var req shuapp.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	setting, err := h.settingService.UpdateSetting(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// Delete godoc
// @ID           deleteShuSetting
// @Summary      Delete a SHU percentage setting
// @Tags         shu-settings
// @Produce      json
// @Param        id path string true "Setting ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/settings/{id} [delete]
func (h *ShuSettingHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid setting ID format")
		return
	}

	if err := h.settingService.DeleteSetting(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate godoc
// @ID           activateShuSetting
// @Summary      Activate a SHU percentage setting
// @Description  Deactivates any other setting for the same fiscal year
// @Tags         shu-settings
// @Produce      json
// @Param        id path string true "Setting ID" format(uuid)
// @Success      200 {object} APIResponse[shuapp.SettingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/settings/{id}/activate [post]
func (h *ShuSettingHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid setting ID format")
		return
	}

	setting, err := h.settingService.ActivateSetting(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}
