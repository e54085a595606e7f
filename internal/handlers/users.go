package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/services"
)

// UserHandler is mounted behind Protect + Authorize("admin").
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	result, err := h.users.List(c.Context(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in services.UserInput
	if err := body(c, &in); err != nil {
		return err
	}
	user, err := h.users.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusCreated, user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in services.UserUpdate
	if err := body(c, &in); err != nil {
		return err
	}
	user, err := h.users.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, fiber.Map{})
}
