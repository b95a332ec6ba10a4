package handlers

import (
	"time"

	"bridebuddy.app/models"
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// InviteHandler issues, describes and redeems invites.
type InviteHandler struct {
	invites    services.IInviteService
	acceptance services.IAcceptanceService
}

func NewInviteHandler(invites services.IInviteService, acceptance services.IAcceptanceService) *InviteHandler {
	return &InviteHandler{invites: invites, acceptance: acceptance}
}

type createInviteRequest struct {
	Role        models.Role         `json:"role"`
	Permissions *models.Permissions `json:"permissions"`
}

type createInviteResponse struct {
	InviteID  uuid.UUID          `json:"invite_id"`
	Token     string             `json:"token"`
	InviteURL string             `json:"invite_url,omitempty"`
	Role      models.Role        `json:"role"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
	Perms     models.Permissions `json:"wedding_profile_permissions"`
}

// CreateInvite (POST /api/invites)
func (h *InviteHandler) CreateInvite(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	issued, err := h.invites.IssueInvite(c.UserContext(), userID, req.Role, req.Permissions)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(createInviteResponse{
		InviteID:  issued.Invite.ID,
		Token:     issued.Token,
		InviteURL: issued.URL,
		Role:      issued.Invite.Role,
		ExpiresAt: issued.Invite.ExpiresAt,
		Perms:     issued.Invite.Permissions.Data(),
	})
}

// InviteInfo (GET /api/invites/:token) is public.
func (h *InviteHandler) InviteInfo(c *fiber.Ctx) error {
	info, err := h.invites.InviteInfo(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(info)
}

// AcceptInvite (POST /api/invites/:token/accept). The bearer is verified by
// the acceptance workflow itself.
func (h *InviteHandler) AcceptInvite(c *fiber.Ctx) error {
	outcome, err := h.acceptance.Accept(c.UserContext(), c.Params("token"), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "result": outcome})
}
