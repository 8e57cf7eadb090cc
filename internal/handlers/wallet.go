package handlers

import (
	"errors"

	"dinedate/internal/services/topup"
	"dinedate/internal/services/wallet"
	"dinedate/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledger wallet.Service
	topup  topup.Service
}

func NewWalletHandler(ledger wallet.Service, topupSvc topup.Service) *WalletHandler {
	return &WalletHandler{ledger: ledger, topup: topupSvc}
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	w, err := h.ledger.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to get wallet")
	}
	return utils.Success(c, w)
}

func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	txs, err := h.ledger.Transactions(c.Context(), claims.UserID, limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}
	return utils.Success(c, txs)
}

func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		CardToken string `json:"card_token" validate:"required"`
		Amount    int64  `json:"amount" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	w, err := h.topup.TopUp(c.Context(), claims.UserID, input.CardToken, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, topup.ErrChargeFailed):
			return utils.Error(c, fiber.StatusPaymentRequired, err.Error())
		}
		return utils.InternalError(c, "failed to top up")
	}
	return utils.Success(c, w)
}
