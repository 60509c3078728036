package handler

import (
	"github.com/gin-gonic/gin"
	memberapp "github.com/koperasi/backend/internal/application/member"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// SavingsHandler handles savings deposit, withdrawal and ledger endpoints
type SavingsHandler struct {
	BaseHandler
	savingsService *memberapp.SavingsService
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService *memberapp.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// Deposit godoc
// @ID           depositSavings
// @Summary      Deposit into a savings account
// @Tags         savings
// @Accept       json
// @Produce      json
// @Param        request body memberapp.PostTransactionRequest true "Deposit details"
// @Success      201 {object} APIResponse[memberapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /savings/deposits [post]
func (h *SavingsHandler) Deposit(c *gin.Context) {
	var req memberapp.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.savingsService.Deposit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// Withdraw godoc
// @ID           withdrawSavings
// @Summary      Withdraw from a savings account
// @Description  Only voluntary (SUKARELA) accounts permit withdrawals
// @Tags         savings
// @Accept       json
// @Produce      json
// @Param        request body memberapp.PostTransactionRequest true "Withdrawal details"
// @Success      201 {object} APIResponse[memberapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /savings/withdrawals [post]
func (h *SavingsHandler) Withdraw(c *gin.Context) {
	var req memberapp.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	tx, err := h.savingsService.Withdraw(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tx)
}

// ListTransactions godoc
// @ID           listSavingsTransactions
// @Summary      List savings ledger entries
// @Tags         savings
// @Produce      json
// @Param        member_id query string false "Member ID" format(uuid)
// @Param        account_id query string false "Account ID" format(uuid)
// @Param        type query string false "Transaction type" Enums(DEPOSIT, WITHDRAWAL, SHU_PAYOUT)
// @Param        from_date query string false "Posted-at lower bound (RFC 3339)"
// @Param        to_date query string false "Posted-at upper bound (RFC 3339)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]memberapp.TransactionResponse]
// @Security     BearerAuth
// @Router       /savings/transactions [get]
func (h *SavingsHandler) ListTransactions(c *gin.Context) {
	var filter memberapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.savingsService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}
