package handlers

import (
	"bridebuddy.app/models"
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
)

// BestieHandler serves bestie permissions and planning data.
type BestieHandler struct {
	perms     services.IBestiePermissionService
	knowledge services.IBestieKnowledgeService
}

func NewBestieHandler(perms services.IBestiePermissionService, knowledge services.IBestieKnowledgeService) *BestieHandler {
	return &BestieHandler{perms: perms, knowledge: knowledge}
}

// GetPermissions (GET /api/bestie/permissions)
func (h *BestieHandler) GetPermissions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.perms.GetMyPermissions(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// UpdatePermissions (PUT /api/bestie/permissions)
func (h *BestieHandler) UpdatePermissions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var grant models.Permissions
	if err := c.BodyParser(&grant); err != nil {
		return badRequest(c, "invalid request body")
	}
	view, err := h.perms.UpdateInviterAccess(c.UserContext(), userID, grant)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// ListKnowledge (GET /api/bestie/knowledge)
func (h *BestieHandler) ListKnowledge(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.knowledge.ListOwn(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// AddKnowledge (POST /api/bestie/knowledge)
func (h *BestieHandler) AddKnowledge(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in services.KnowledgeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.knowledge.Add(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// SharedKnowledge (GET /api/bestie/knowledge/shared) is the inviter's view.
func (h *BestieHandler) SharedKnowledge(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.knowledge.ListShared(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// EditKnowledge (PATCH /api/bestie/knowledge/:id)
func (h *BestieHandler) EditKnowledge(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	itemID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in services.KnowledgeInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.knowledge.Edit(c.UserContext(), userID, itemID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}
