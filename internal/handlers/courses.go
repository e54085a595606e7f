package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/middleware"
	"github.com/coralbay/divedirectory/internal/services"
)

type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List serves both the global listing and the nested
// /diveCenters/:diveCenterId/courses listing.
func (h *CourseHandler) List(c *fiber.Ctx) error {
	if centerID := c.Params("diveCenterId"); centerID != "" {
		courses, err := h.courses.ListByCenter(c.Context(), centerID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "count": len(courses), "data": courses})
	}

	result, err := h.courses.List(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, course)
}

func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var in services.CourseInput
	if err := body(c, &in); err != nil {
		return err
	}
	course, err := h.courses.Create(c.Context(), middleware.ActorFromCtx(c), c.Params("diveCenterId"), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, course)
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	var in services.CourseUpdate
	if err := body(c, &in); err != nil {
		return err
	}
	course, err := h.courses.Update(c.Context(), middleware.ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, course)
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	if err := h.courses.Delete(c.Context(), middleware.ActorFromCtx(c), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{})
}
