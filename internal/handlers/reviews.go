package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/middleware"
	"github.com/coralbay/divedirectory/internal/services"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List serves both the global listing and the nested
// /diveCenters/:diveCenterId/reviews listing.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	if centerID := c.Params("diveCenterId"); centerID != "" {
		reviews, err := h.reviews.ListByCenter(c.Context(), centerID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(reviews), "data": reviews})
	}

	result, err := h.reviews.List(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	review, err := h.reviews.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := body(c, &in); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.Context(), middleware.ActorFromCtx(c), c.Params("diveCenterId"), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	var in services.ReviewUpdate
	if err := body(c, &in); err != nil {
		return err
	}
	review, err := h.reviews.Update(c.Context(), middleware.ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	if err := h.reviews.Delete(c.Context(), middleware.ActorFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{})
}
