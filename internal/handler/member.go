package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ldflores83/falconcore/internal/apperr"
	"github.com/ldflores83/falconcore/internal/middleware"
	"github.com/ldflores83/falconcore/internal/model"
)

type inviteRequest struct {
	TenantID string     `json:"tenantId"`
	Email    string     `json:"email" validate:"required,email"`
	Role     model.Role `json:"role"`
}

type acceptRequest struct {
	TenantID string `json:"tenantId"`
}

type updateMemberRequest struct {
	Role   *model.Role             `json:"role"`
	Status *model.MembershipStatus `json:"status"`
}

var inviteCodes = map[string]string{"email": apperr.CodeInvalidEmail}

// inviteResponse mirrors the pending membership returned to the inviter.
type inviteResponse struct {
	InviteID string                 `json:"inviteId"`
	Email    string                 `json:"email"`
	Role     model.Role             `json:"role"`
	Status   model.MembershipStatus `json:"status"`
}

// InviteUser invites an email into the tenant. The role defaults to member.
func (h *Handler) InviteUser(c echo.Context) error {
	var req inviteRequest
	if err := bind(c, &req, inviteCodes); err != nil {
		return err
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	return h.invite(c, req)
}

// InviteMember invites an email into the tenant with an explicit role.
func (h *Handler) InviteMember(c echo.Context) error {
	var req inviteRequest
	if err := bind(c, &req, inviteCodes); err != nil {
		return err
	}
	if req.Role == "" {
		return apperr.Validation(apperr.CodeMissingFields, "email and role are required")
	}
	return h.invite(c, req)
}

func (h *Handler) invite(c echo.Context, req inviteRequest) error {
	m, err := h.members.Invite(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), req.Email, req.Role)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, inviteResponse{InviteID: m.ID, Email: m.Email, Role: m.Role, Status: m.Status})
}

func (h *Handler) ListMembers(c echo.Context) error {
	members, err := h.members.List(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, members)
}

// AcceptInvite promotes the caller's invitation to an active membership.
func (h *Handler) AcceptInvite(c echo.Context) error {
	var req acceptRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	m, err := h.members.Accept(c.Request().Context(), middleware.Identity(c), req.TenantID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{
		"tenantId": m.TenantID,
		"role":     m.Role,
		"status":   m.Status,
	})
}

// UpdateMember changes a member's role, status or both. The changes are
// applied together.
func (h *Handler) UpdateMember(c echo.Context) error {
	var req updateMemberRequest
	if err := bind(c, &req, nil); err != nil {
		return err
	}

	m, err := h.members.Update(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), c.Param("memberId"),
		model.MembershipUpdate{Role: req.Role, Status: req.Status})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, m)
}

func (h *Handler) RemoveMember(c echo.Context) error {
	if err := h.members.Remove(c.Request().Context(), middleware.Actor(c), middleware.TenantID(c), c.Param("memberId")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"memberId": c.Param("memberId")})
}
