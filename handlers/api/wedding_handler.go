package handlers

import (
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
)

// WeddingHandler serves the wedding profile.
type WeddingHandler struct {
	weddings services.IWeddingService
}

func NewWeddingHandler(weddings services.IWeddingService) *WeddingHandler {
	return &WeddingHandler{weddings: weddings}
}

// CreateWedding (POST /api/weddings)
func (h *WeddingHandler) CreateWedding(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in services.CreateWeddingInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	wedding, err := h.weddings.CreateWedding(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"wedding": wedding, "role": "owner"})
}

// GetProfile (GET /api/wedding)
func (h *WeddingHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	profile, err := h.weddings.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile (PATCH /api/wedding)
func (h *WeddingHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	patch := map[string]interface{}{}
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	profile, err := h.weddings.UpdateProfile(c.UserContext(), userID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}
