package handlers

import (
	"dinedate/internal/services/settlement"
	"dinedate/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type SettlementHandler struct {
	worker settlement.Service
}

func NewSettlementHandler(worker settlement.Service) *SettlementHandler {
	return &SettlementHandler{worker: worker}
}

// Run triggers a settlement sweep on demand. The scheduled worker binary
// is the normal driver; this endpoint exists for operators.
func (h *SettlementHandler) Run(c *fiber.Ctx) error {
	summary := h.worker.RunSweep(c.Context())
	return utils.Success(c, summary)
}
