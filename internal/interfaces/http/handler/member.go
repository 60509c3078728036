package handler

import (
	"github.com/gin-gonic/gin"
	memberapp "github.com/koperasi/backend/internal/application/member"
	"github.com/koperasi/backend/internal/interfaces/http/middleware"
)

// MemberHandler handles cooperative membership endpoints
type MemberHandler struct {
	BaseHandler
	memberService *memberapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *memberapp.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// SuspendMemberRequest carries the suspension reason
type SuspendMemberRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Register godoc
// @ID           registerMember
// @Summary      Register a cooperative member
// @Description  Registers a member and opens their mandatory savings accounts
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body memberapp.RegisterMemberRequest true "Member details"
// @Success      201 {object} APIResponse[memberapp.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members [post]
func (h *MemberHandler) Register(c *gin.Context) {
	var req memberapp.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	member, err := h.memberService.RegisterMember(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, member)
}

// List godoc
// @ID           listMembers
// @Summary      List cooperative members
// @Tags         members
// @Produce      json
// @Param        status query string false "Status filter" Enums(ACTIVE, SUSPENDED)
// @Param        search query string false "Search by member number or name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]memberapp.MemberResponse]
// @Security     BearerAuth
// @Router       /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var filter memberapp.MemberListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.memberService.ListMembers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getMemberById
// @Summary      Get a member with savings accounts
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Success      200 {object} APIResponse[memberapp.MemberDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// Update godoc
// @ID           updateMember
// @Summary      Update a member's profile
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body memberapp.UpdateMemberRequest true "Profile fields"
// @Success      200 {object} APIResponse[memberapp.MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	var req memberapp.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// Suspend godoc
// @ID           suspendMember
// @Summary      Suspend a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body SuspendMemberRequest true "Suspension reason"
// @Success      200 {object} APIResponse[memberapp.MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id}/suspend [post]
func (h *MemberHandler) Suspend(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	var req SuspendMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	member, err := h.memberService.SuspendMember(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}

// Activate godoc
// @ID           activateMember
// @Summary      Reactivate a suspended member
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Success      200 {object} APIResponse[memberapp.MemberResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id}/activate [post]
func (h *MemberHandler) Activate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	member, err := h.memberService.ActivateMember(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, member)
}
