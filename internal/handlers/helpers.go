package handlers

import (
	"dinedate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// callerClaims extracts the authenticated caller set by the auth
// middleware.
func callerClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}
