package handlers

import (
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
)

// UpdateHandler serves proposed wedding profile changes.
type UpdateHandler struct {
	updates services.IPendingUpdateService
}

func NewUpdateHandler(updates services.IPendingUpdateService) *UpdateHandler {
	return &UpdateHandler{updates: updates}
}

type proposeRequest struct {
	FieldName string `json:"field_name"`
	NewValue  string `json:"new_value"`
}

type decisionRequest struct {
	Action string `json:"action"`
}

// ListUpdates (GET /api/updates)
func (h *UpdateHandler) ListUpdates(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.updates.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updates": list})
}

// ProposeUpdate (POST /api/updates)
func (h *UpdateHandler) ProposeUpdate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req proposeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	update, err := h.updates.Propose(c.UserContext(), userID, req.FieldName, req.NewValue)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(update)
}

// DecideUpdate (POST /api/updates/:id/decision)
func (h *UpdateHandler) DecideUpdate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	updateID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req decisionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	var approve bool
	switch req.Action {
	case "approve":
		approve = true
	case "reject":
	default:
		return badRequest(c, "action must be approve or reject")
	}
	update, err := h.updates.Decide(c.UserContext(), userID, updateID, approve)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(update)
}
