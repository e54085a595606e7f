package httperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// Error is the API error type. StatusCode decides the HTTP status and the
// message is rendered verbatim in the response envelope.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{StatusCode: fiber.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...interface{}) *Error {
	return &Error{StatusCode: fiber.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotAuthorized(format string, args ...interface{}) *Error {
	return &Error{StatusCode: fiber.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Server(format string, args ...interface{}) *Error {
	return &Error{StatusCode: fiber.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// FromMongo rewrites driver errors into the API taxonomy. Anything it does
// not recognize passes through untouched and ends up as a 500.
func FromMongo(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound("Resource not found")
	}
	if mongo.IsDuplicateKeyError(err) {
		return BadRequest("Duplicate field value entered")
	}
	return err
}

// FromValidation flattens validator errors into a single 400 message.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return BadRequest("%s", strings.Join(msgs, ", "))
	}
	return BadRequest("Invalid request body")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please add a %s", strings.ToLower(fe.Field()))
	case "email":
		return "Please add a valid email"
	case "max":
		return fmt.Sprintf("%s can not be more than %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Handler is the central Fiber error handler. Every handler error funnels
// through here and is rendered as {"success": false, "error": msg}.
func Handler(c *fiber.Ctx, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.StatusCode).JSON(fiber.Map{"success": false, "error": apiErr.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"success": false, "error": fiberErr.Message})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Server Error"})
}

// NotFoundRoute is mounted after all routers.
func NotFoundRoute(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Route not found"})
}
