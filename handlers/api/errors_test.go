package handlers

import (
	"errors"
	"fmt"
	"testing"

	"bridebuddy.app/services"

	"github.com/gofiber/fiber/v2"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrInvalidInput, fiber.StatusBadRequest},
		{services.ErrExpired, fiber.StatusBadRequest},
		{services.ErrAlreadyUsed, fiber.StatusBadRequest},
		{services.ErrUnauthenticated, fiber.StatusUnauthorized},
		{services.ErrNotAuthorized, fiber.StatusForbidden},
		{services.ErrNotFound, fiber.StatusNotFound},
		{services.ErrAlreadyMember, fiber.StatusConflict},
		{services.ErrCardinalityExceeded, fiber.StatusConflict},
		{fmt.Errorf("%w: invites.create", services.ErrStorageFailure), fiber.StatusServiceUnavailable},
		{errors.New("unexpected"), fiber.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Fatalf("StatusFor(%v): want=%d got=%d", c.err, c.want, got)
		}
	}
}
