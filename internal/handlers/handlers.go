// Package handlers adapts the services to Fiber request/response cycles
// and mounts the versioned route surface.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/httperr"
)

// ok renders the success envelope shared by every endpoint.
func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// body decodes the request body, mapping parse failures to a 400.
func body(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return httperr.BadRequest("Invalid request body")
	}
	return nil
}
