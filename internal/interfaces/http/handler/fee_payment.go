package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	estateapp "github.com/koperasi/backend/internal/application/estate"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// FeePaymentHandler handles estate fee billing endpoints
type FeePaymentHandler struct {
	BaseHandler
	feePaymentService *estateapp.FeePaymentService
}

// NewFeePaymentHandler creates a new FeePaymentHandler
func NewFeePaymentHandler(feePaymentService *estateapp.FeePaymentService) *FeePaymentHandler {
	return &FeePaymentHandler{feePaymentService: feePaymentService}
}

// GenerateBillsRequest carries the billing period for bulk bill generation
type GenerateBillsRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// GenerateBillsResponse reports how many bills a bulk run created
type GenerateBillsResponse struct {
	Created int `json:"created"`
}

// MarkOverdueResponse reports how many bills an overdue sweep flipped
type MarkOverdueResponse struct {
	Marked int `json:"marked"`
}

// Create godoc
// @ID           createFeePayment
// @Summary      Create a fee bill
// @Description  Duplicate bills for the same resident, fee and period are rejected
// @Tags         fee-payments
// @Accept       json
// @Produce      json
// @Param        request body estateapp.CreateFeePaymentRequest true "Bill details"
// @Success      201 {object} APIResponse[estateapp.FeePaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fee-payments [post]
func (h *FeePaymentHandler) Create(c *gin.Context) {
	var req estateapp.CreateFeePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.feePaymentService.CreateFeePayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// List godoc
// @ID           listFeePayments
// @Summary      List fee bills
// @Description  Overdue unpaid bills are reported with the penalty accrued as of today
// @Tags         fee-payments
// @Produce      json
// @Param        resident_id query string false "Resident filter" format(uuid)
// @Param        fee_id query string false "Fee filter" format(uuid)
// @Param        status query string false "Status filter" Enums(UNPAID, PAID, OVERDUE, CANCELLED)
// @Param        period query string false "Billing period (YYYY-MM)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]estateapp.FeePaymentResponse]
// @Security     BearerAuth
// @Router       /estate/fee-payments [get]
func (h *FeePaymentHandler) List(c *gin.Context) {
	var filter estateapp.FeePaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.feePaymentService.ListFeePayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getFeePaymentById
// @Summary      Get a fee bill
// @Tags         fee-payments
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[estateapp.FeePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fee-payments/{id} [get]
func (h *FeePaymentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	payment, err := h.feePaymentService.GetFeePayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Pay godoc
// @ID           payFeePayment
// @Summary      Record a bill payment
// @Description  Payments after the due date settle the bill amount plus the accrued penalty
// @Tags         fee-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body estateapp.RecordPaymentRequest true "Payment details"
// @Success      200 {object} APIResponse[estateapp.FeePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fee-payments/{id}/pay [post]
func (h *FeePaymentHandler) Pay(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req estateapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.feePaymentService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Reschedule godoc
// @ID           rescheduleFeePayment
// @Summary      Reschedule a bill due date
// @Description  Moving the due date forward clears any accrued penalty until the new date passes
// @Tags         fee-payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Param        request body estateapp.RescheduleRequest true "New due date"
// @Success      200 {object} APIResponse[estateapp.FeePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fee-payments/{id}/reschedule [post]
func (h *FeePaymentHandler) Reschedule(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	var req estateapp.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.feePaymentService.Reschedule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Cancel godoc
// @ID           cancelFeePayment
// @Summary      Cancel a bill
// @Description  Paid bills cannot be cancelled
// @Tags         fee-payments
// @Produce      json
// @Param        id path string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[estateapp.FeePaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fee-payments/{id}/cancel [post]
func (h *FeePaymentHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bill ID format")
		return
	}

	payment, err := h.feePaymentService.CancelFeePayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// GenerateBills godoc
// @ID           generateMonthlyBills
// @Summary      Generate monthly bills
// @Description  Creates one bill per active resident and active fee for the period, skipping residents already billed
// @Tags         fee-payments
// @Accept       json
// @Produce      json
// @Param        request body GenerateBillsRequest true "Billing period"
// @Success      200 {object} APIResponse[GenerateBillsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /estate/fee-payments/generate [post]
func (h *FeePaymentHandler) GenerateBills(c *gin.Context) {
	var req GenerateBillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	created, err := h.feePaymentService.GenerateMonthlyBills(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, GenerateBillsResponse{Created: created})
}

// MarkOverdue godoc
// @ID           markOverduePayments
// @Summary      Mark overdue bills
// @Description  Flips pending bills past their due date to OVERDUE as of now
// @Tags         fee-payments
// @Produce      json
// @Success      200 {object} APIResponse[MarkOverdueResponse]
// @Security     BearerAuth
// @Router       /estate/fee-payments/mark-overdue [post]
func (h *FeePaymentHandler) MarkOverdue(c *gin.Context) {
	marked, err := h.feePaymentService.MarkOverduePayments(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MarkOverdueResponse{Marked: marked})
}
