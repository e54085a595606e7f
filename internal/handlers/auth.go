package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/middleware"
	"github.com/coralbay/divedirectory/internal/services"
)

type AuthHandler struct {
	auth         *services.AuthService
	cookieExpire time.Duration
}

func NewAuthHandler(auth *services.AuthService, cookieExpire time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, cookieExpire: cookieExpire}
}

// sendToken sets the token cookie and renders the token envelope.
func (h *AuthHandler) sendToken(c *fiber.Ctx, status int, token string) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.cookieExpire),
		HTTPOnly: true,
	})
	return c.Status(status).JSON(fiber.Map{"success": true, "token": token})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := body(c, &in); err != nil {
		return err
	}
	_, token, err := h.auth.Register(c.Context(), in)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := body(c, &in); err != nil {
		return err
	}
	_, token, err := h.auth.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return ok(c, fiber.StatusOK, fiber.Map{})
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	user, err := h.auth.GetByID(c.Context(), actor.ID)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *AuthHandler) UpdateDetails(c *fiber.Ctx) error {
	var in services.DetailsInput
	if err := body(c, &in); err != nil {
		return err
	}
	actor := middleware.ActorFromCtx(c)
	user, err := h.auth.UpdateDetails(c.Context(), actor.ID, in)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, user)
}

func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := body(c, &in); err != nil {
		return err
	}
	actor := middleware.ActorFromCtx(c)
	_, token, err := h.auth.UpdatePassword(c.Context(), actor.ID, in.CurrentPassword, in.NewPassword)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := body(c, &in); err != nil {
		return err
	}
	if _, err := h.auth.ForgotPassword(c.Context(), in.Email); err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Email sent")
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in struct {
		Password string `json:"password"`
	}
	if err := body(c, &in); err != nil {
		return err
	}
	_, token, err := h.auth.ResetPassword(c.Context(), c.Params("resettoken"), in.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}
