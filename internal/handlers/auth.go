package handlers

import (
	"errors"
	"time"

	"dinedate/internal/services/user"
	"dinedate/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	users user.Service
}

func NewAuthHandler(users user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input user.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created, err := h.users.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrPhoneTaken):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, user.ErrUnknownReferralCode):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "failed to register")
	}
	return utils.Created(c, created)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Phone    string `json:"phone" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	u, err := h.users.Authenticate(c.Context(), input.Phone, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return utils.Unauthorized(c, err.Error())
		}
		return utils.InternalError(c, "failed to log in")
	}

	token, err := utils.GenerateToken(u, 24*time.Hour)
	if err != nil {
		return utils.InternalError(c, "failed to issue token")
	}
	return utils.Success(c, fiber.Map{"token": token, "user": u})
}

// Profile resolves another user's public profile; the real avatar is
// only revealed when the caller shares a Connection with them.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return utils.BadRequest(c, "invalid user id")
	}

	profile, err := h.users.ResolveProfile(c.Context(), claims.UserID, uint(userID))
	if err != nil {
		return utils.NotFound(c, "user not found")
	}
	return utils.Success(c, profile)
}
