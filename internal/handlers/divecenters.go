package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/middleware"
	"github.com/coralbay/divedirectory/internal/services"
)

type DiveCenterHandler struct {
	centers *services.DiveCenterService
}

func NewDiveCenterHandler(centers *services.DiveCenterService) *DiveCenterHandler {
	return &DiveCenterHandler{centers: centers}
}

func (h *DiveCenterHandler) List(c *fiber.Ctx) error {
	result, err := h.centers.List(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *DiveCenterHandler) Get(c *fiber.Ctx) error {
	center, err := h.centers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, center)
}

func (h *DiveCenterHandler) Create(c *fiber.Ctx) error {
	var in services.DiveCenterInput
	if err := body(c, &in); err != nil {
		return err
	}
	center, err := h.centers.Create(c.Context(), middleware.ActorFromCtx(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, center)
}

func (h *DiveCenterHandler) Update(c *fiber.Ctx) error {
	var in services.DiveCenterUpdate
	if err := body(c, &in); err != nil {
		return err
	}
	center, err := h.centers.Update(c.Context(), middleware.ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, center)
}

func (h *DiveCenterHandler) Delete(c *fiber.Ctx) error {
	if err := h.centers.Delete(c.Context(), middleware.ActorFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{})
}

func (h *DiveCenterHandler) InRadius(c *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(c.Params("distance"), 64)
	if err != nil {
		return httperr.BadRequest("Invalid distance %s", c.Params("distance"))
	}

	centers, err := h.centers.InRadius(c.Context(), c.Params("address"), distance)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(centers), "data": centers})
}

func (h *DiveCenterHandler) UploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return httperr.BadRequest("Please upload a file")
	}

	name, err := h.centers.UploadPhoto(c.Context(), middleware.ActorFromCtx(c), c.Params("id"), file)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, name)
}
