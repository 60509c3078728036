package handler

import (
	"github.com/gin-gonic/gin"
	shuapp "github.com/koperasi/backend/internal/application/shu"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// ShuDistributionHandler handles SHU distribution lifecycle endpoints
type ShuDistributionHandler struct {
	BaseHandler
	distributionService *shuapp.DistributionService
}

// NewShuDistributionHandler creates a new ShuDistributionHandler
func NewShuDistributionHandler(distributionService *shuapp.DistributionService) *ShuDistributionHandler {
	return &ShuDistributionHandler{distributionService: distributionService}
}

// Create godoc
// @ID           createShuDistribution
// @Summary      Create a SHU distribution
// @Description  Only one distribution may exist per fiscal year
// @Tags         shu-distributions
// @Accept       json
// @Produce      json
// @Param        request body shuapp.CreateDistributionRequest true "Distribution details"
// @Success      201 {object} APIResponse[shuapp.DistributionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions [post]
func (h *ShuDistributionHandler) Create(c *gin.Context) {
	var req shuapp.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dist, err := h.distributionService.CreateDistribution(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dist)
}

// List godoc
// @ID           listShuDistributions
// @Summary      List SHU distributions
// @Tags         shu-distributions
// @Produce      json
// @Param        fiscal_year query int false "Fiscal year filter"
// @Param        status query string false "Status filter" Enums(DRAFT, CALCULATED, APPROVED, DISTRIBUTED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]shuapp.DistributionResponse]
// @Security     BearerAuth
// @Router       /shu/distributions [get]
func (h *ShuDistributionHandler) List(c *gin.Context) {
	var filter shuapp.DistributionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.distributionService.ListDistributions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getShuDistributionById
// @Summary      Get a SHU distribution
// @Tags         shu-distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[shuapp.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id} [get]
func (h *ShuDistributionHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	dist, err := h.distributionService.GetDistribution(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dist)
}

// Update godoc
// @ID           updateShuDistribution
// @Summary      Update a SHU distribution
// @Description  Only draft distributions can be updated; editing a calculated one resets it to draft
// @Tags         shu-distributions
// @Accept       json
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body shuapp.UpdateDistributionRequest true "Distribution fields"
// @Success      200 {object} APIResponse[shuapp.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id} [put]
func (h *ShuDistributionHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	var req shuapp.UpdateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dist, err := h.distributionService.UpdateDistribution(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dist)
}

// Delete godoc
// @ID           deleteShuDistribution
// @Summary      Delete a SHU distribution
// @Description  Approved and distributed distributions cannot be deleted
// @Tags         shu-distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id} [delete]
func (h *ShuDistributionHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	if err := h.distributionService.DeleteDistribution(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Allocations godoc
// @ID           listShuAllocations
// @Summary      List member allocations for a distribution
// @Tags         shu-distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[[]shuapp.AllocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id}/allocations [get]
func (h *ShuDistributionHandler) Allocations(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	allocations, err := h.distributionService.ListAllocations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, allocations)
}

// Calculate godoc
// @ID           calculateShuDistribution
// @Summary      Calculate member allocations
// @Description  Splits the total SHU across active members by savings and transaction share, replacing any prior calculation
// @Tags         shu-distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[shuapp.CalculationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id}/calculate [post]
func (h *ShuDistributionHandler) Calculate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	result, err := h.distributionService.CalculateAllocations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Approve godoc
// @ID           approveShuDistribution
// @Summary      Approve a calculated distribution
// @Tags         shu-distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[shuapp.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id}/approve [post]
func (h *ShuDistributionHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	approvedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	dist, err := h.distributionService.Approve(c.Request.Context(), id, approvedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dist)
}

// Payout godoc
// @ID           payoutShuDistribution
// @Summary      Pay out an approved distribution
// @Description  Credits each allocation to the member's voluntary savings account; failed credits are reported without aborting the batch
// @Tags         shu-distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[shuapp.PayoutResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shu/distributions/{id}/payout [post]
func (h *ShuDistributionHandler) Payout(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid distribution ID format")
		return
	}

	result, err := h.distributionService.BatchPayout(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
