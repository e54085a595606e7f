package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/middleware"
	"github.com/coralbay/divedirectory/internal/models"
)

// Mount wires the full versioned route surface onto the app.
func Mount(app *fiber.App, auth *middleware.Auth, ah *AuthHandler, uh *UserHandler, dh *DiveCenterHandler, ch *CourseHandler, rh *ReviewHandler) {
	api := app.Group("/api/v1")

	publisher := middleware.Authorize(models.RolePublisher, models.RoleAdmin)
	reviewer := middleware.Authorize(models.RoleUser, models.RoleAdmin)
	admin := middleware.Authorize(models.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/logout", ah.Logout)
	authGroup.Get("/me", auth.Protect, ah.GetMe)
	authGroup.Put("/updatedetails", auth.Protect, ah.UpdateDetails)
	authGroup.Put("/updatepassword", auth.Protect, ah.UpdatePassword)
	authGroup.Post("/forgotpassword", ah.ForgotPassword)
	authGroup.Put("/resetpassword/:resettoken", ah.ResetPassword)

	centers := api.Group("/diveCenters")
	centers.Get("/radius/:address/:distance", dh.InRadius)
	centers.Put("/:id/photo", auth.Protect, publisher, dh.UploadPhoto)
	centers.Get("/:diveCenterId/courses", ch.List)
	centers.Post("/:diveCenterId/courses", auth.Protect, publisher, ch.Create)
	centers.Get("/:diveCenterId/reviews", rh.List)
	centers.Post("/:diveCenterId/reviews", auth.Protect, reviewer, rh.Create)
	centers.Get("/", dh.List)
	centers.Post("/", auth.Protect, publisher, dh.Create)
	centers.Get("/:id", dh.Get)
	centers.Put("/:id", auth.Protect, publisher, dh.Update)
	centers.Delete("/:id", auth.Protect, publisher, dh.Delete)

	courses := api.Group("/courses")
	courses.Get("/", ch.List)
	courses.Post("/", auth.Protect, publisher, ch.Create)
	courses.Get("/:id", ch.Get)
	courses.Put("/:id", auth.Protect, publisher, ch.Update)
	courses.Delete("/:id", auth.Protect, publisher, ch.Delete)

	reviews := api.Group("/reviews")
	reviews.Get("/", rh.List)
	reviews.Post("/", auth.Protect, reviewer, rh.Create)
	reviews.Get("/:id", rh.Get)
	reviews.Put("/:id", auth.Protect, reviewer, rh.Update)
	reviews.Delete("/:id", auth.Protect, reviewer, rh.Delete)

	users := api.Group("/users", auth.Protect, admin)
	users.Get("/", uh.List)
	users.Post("/", uh.Create)
	users.Get("/:id", uh.Get)
	users.Put("/:id", uh.Update)
	users.Delete("/:id", uh.Delete)

	app.Use(httperr.NotFoundRoute)
}
