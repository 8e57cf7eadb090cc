package handlers

import (
	"errors"

	"dinedate/internal/repositories"
	"dinedate/internal/services/review"
	"dinedate/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviews review.Service
}

func NewReviewHandler(reviews review.Service) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Submit stores a post-date review and reports whether it completed the
// mutual reveal.
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	claims, err := callerClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	orderID, err := c.ParamsInt("id")
	if err != nil || orderID <= 0 {
		return utils.BadRequest(c, "invalid order id")
	}

	var input review.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	input.OrderID = uint(orderID)
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	result, err := h.reviews.Submit(c.Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			return utils.NotFound(c, "order not found")
		case errors.Is(err, review.ErrOrderNotCompleted),
			errors.Is(err, review.ErrInvalidRating):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, review.ErrNotOrderParticipant):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, review.ErrDuplicateReview):
			return utils.Conflict(c, err.Error())
		}
		return utils.InternalError(c, "failed to submit review")
	}
	return utils.Created(c, result)
}
