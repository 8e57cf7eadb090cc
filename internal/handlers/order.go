package handlers

import (
	"errors"

	"dinedate/internal/repositories"
	"dinedate/internal/services/order"
	"dinedate/internal/services/wallet"
	"dinedate/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input order.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created, err := h.orders.Create(c.Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidSchedule),
			errors.Is(err, order.ErrLimitExceeded):
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "failed to create order")
	}
	return utils.Created(c, created)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}
	o, err := h.orders.Get(c.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return utils.NotFound(c, "order not found")
		}
		return utils.InternalError(c, "failed to get order")
	}
	return utils.Success(c, o)
}

func (h *OrderHandler) Apply(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	app, err := h.orders.Apply(c.Context(), claims.UserID, uint(orderID), input.Message)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			return utils.NotFound(c, "order not found")
		case errors.Is(err, order.ErrOrderNotOpen),
			errors.Is(err, order.ErrOwnOrder):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, order.ErrDuplicateApplication):
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "failed to apply")
	}
	return utils.Created(c, app)
}

func (h *OrderHandler) ListApplications(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	apps, err := h.orders.ListApplications(c.Context(), claims.UserID, uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			return utils.NotFound(c, "order not found")
		case errors.Is(err, order.ErrNotOrderOwner):
			return utils.Forbidden(c, err.Error())
		}
		return utils.InternalError(c, "failed to list applications")
	}
	return utils.Success(c, apps)
}

func (h *OrderHandler) Accept(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	var input struct {
		ApplicationID uint `json:"application_id" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	o, err := h.orders.Accept(c.Context(), claims.UserID, uint(orderID), input.ApplicationID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound),
			errors.Is(err, repositories.ErrApplicationNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, order.ErrNotOrderOwner):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, order.ErrApplicationMismatch):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, wallet.ErrInsufficientFunds):
			return utils.BadRequest(c, "insufficient funds")
		case errors.Is(err, order.ErrStateConflict):
			return utils.Conflict(c, "order already matched or closed")
		}
		return utils.InternalError(c, "failed to accept application")
	}
	return utils.Success(c, o)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	o, err := h.orders.Cancel(c.Context(), claims.UserID, uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			return utils.NotFound(c, "order not found")
		case errors.Is(err, order.ErrNotOrderOwner):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, order.ErrStateConflict):
			return utils.Conflict(c, "order is no longer active")
		}
		return utils.InternalError(c, "failed to cancel order")
	}
	return utils.Success(c, o)
}
