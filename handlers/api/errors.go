package handlers

import (
	"errors"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Locals keys set by the authentication middleware.
const (
	LocalsUserID = "userID"
	LocalsEmail  = "userEmail"
)

var statusByKind = map[services.ServiceError]int{
	services.ErrInvalidInput:        fiber.StatusBadRequest,
	services.ErrExpired:             fiber.StatusBadRequest,
	services.ErrAlreadyUsed:         fiber.StatusBadRequest,
	services.ErrUnauthenticated:     fiber.StatusUnauthorized,
	services.ErrNotAuthorized:       fiber.StatusForbidden,
	services.ErrNotFound:            fiber.StatusNotFound,
	services.ErrAlreadyMember:       fiber.StatusConflict,
	services.ErrCardinalityExceeded: fiber.StatusConflict,
	services.ErrStorageFailure:      fiber.StatusServiceUnavailable,
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	if kind, ok := services.KindOf(err); ok {
		return statusByKind[kind]
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"error", "reason"}. Internal details of unauthenticated
// and storage errors stay in the logs.
func respondError(c *fiber.Ctx, err error) error {
	kind, ok := services.KindOf(err)
	if !ok {
		configslog.Log.Error("unhandled error", zap.String("route", c.Route().Path), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error", "reason": "internal"})
	}

	msg := err.Error()
	switch kind {
	case services.ErrUnauthenticated, services.ErrStorageFailure:
		msg = kind.Error()
	}
	if kind == services.ErrStorageFailure {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.Status(statusByKind[kind]).JSON(fiber.Map{"error": msg, "reason": services.Reason(err)})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "reason": "invalid_input"})
}

// currentUserID reads the caller set by the authentication middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(LocalsUserID).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, services.ErrUnauthenticated
	}
	return id, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errors.Join(services.ErrNotFound, err)
	}
	return id, nil
}
