package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	estateapp "github.com/koperasi/backend/internal/application/estate"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// ResidentHandler handles estate resident and fee catalog endpoints
type ResidentHandler struct {
	BaseHandler
	residentService *estateapp.ResidentService
}

// NewResidentHandler creates a new ResidentHandler
func NewResidentHandler(residentService *estateapp.ResidentService) *ResidentHandler {
	return &ResidentHandler{residentService: residentService}
}

// ResidentListQuery carries resident list query parameters
type ResidentListQuery struct {
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
	Status   *string `form:"status" binding:"omitempty,oneof=ACTIVE MOVED_OUT"`
}

// MoveOutRequest carries the optional move-out timestamp
type MoveOutRequest struct {
	MovedOutAt *time.Time `json:"moved_out_at"`
}

// Register godoc
// @ID           registerResident
// @Summary      Register a resident
// @Description  Block and unit number must be unique among active residents
// @Tags         residents
// @Accept       json
// @Produce      json
// @Param        request body estateapp.RegisterResidentRequest true "Resident details"
// @Success      201 {object} APIResponse[estateapp.ResidentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/residents [post]
func (h *ResidentHandler) Register(c *gin.Context) {
	var req estateapp.RegisterResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resident, err := h.residentService.RegisterResident(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resident)
}

// List godoc
// @ID           listResidents
// @Summary      List residents
// @Tags         residents
// @Produce      json
// @Param        status query string false "Status filter" Enums(ACTIVE, MOVED_OUT)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]estateapp.ResidentResponse]
// @Security     BearerAuth
// @Router       /estate/residents [get]
func (h *ResidentHandler) List(c *gin.Context) {
	var query ResidentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.residentService.ListResidents(c.Request.Context(), query.Page, query.PageSize, query.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getResidentById
// @Summary      Get a resident
// @Tags         residents
// @Produce      json
// @Param        id path string true "Resident ID" format(uuid)
// @Success      200 {object} APIResponse[estateapp.ResidentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/residents/{id} [get]
func (h *ResidentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID format")
		return
	}

	resident, err := h.residentService.GetResident(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resident)
}

// Update godoc
// @ID           updateResident
// @Summary      Update a resident
// @Tags         residents
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID" format(uuid)
// @Param        request body estateapp.UpdateResidentRequest true "Resident fields"
// @Success      200 {object} APIResponse[estateapp.ResidentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/residents/{id} [put]
func (h *ResidentHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID format")
		return
	}

	var req estateapp.UpdateResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resident, err := h.residentService.UpdateResident(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resident)
}

// MoveOut godoc
// @ID           moveOutResident
// @Summary      Record a resident moving out
// @Description  Frees the block and unit number for a new registration; defaults to the current time
// @Tags         residents
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID" format(uuid)
// @Param        request body MoveOutRequest false "Move-out timestamp"
// @Success      200 {object} APIResponse[estateapp.ResidentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/residents/{id}/move-out [post]
func (h *ResidentHandler) MoveOut(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid resident ID format")
		return
	}

	var req MoveOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	at := time.Now()
	if req.MovedOutAt != nil {
		at = *req.MovedOutAt
	}

	resident, err := h.residentService.MoveOutResident(c.Request.Context(), id, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resident)
}

// CreateFee godoc
// @ID           createFee
// @Summary      Create an estate fee type
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        request body estateapp.FeeRequest true "Fee details"
// @Success      201 {object} APIResponse[estateapp.FeeResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fees [post]
func (h *ResidentHandler) CreateFee(c *gin.Context) {
	var req estateapp.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	fee, err := h.residentService.CreateFee(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, fee)
}

// UpdateFee godoc
// @ID           updateFee
// @Summary      Update an estate fee type
// @Tags         fees
// @Accept       json
// @Produce      json
// @Param        id path string true "Fee ID" format(uuid)
// @Param        request body estateapp.FeeRequest true "Fee fields"
// @Success      200 {object} APIResponse[estateapp.FeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fees/{id} [put]
func (h *ResidentHandler) UpdateFee(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid fee ID format")
		return
	}

	var req estateapp.FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	fee, err := h.residentService.UpdateFee(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fee)
}

// ListFees godoc
// @ID           listFees
// @Summary      List estate fee types
// @Tags         fees
// @Produce      json
// @Success      200 {object} APIResponse[[]estateapp.FeeResponse]
// @Security     BearerAuth
// @Router       /estate/fees [get]
func (h *ResidentHandler) ListFees(c *gin.Context) {
	fees, err := h.residentService.ListFees(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fees)
}
