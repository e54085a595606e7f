package main

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coralbay/divedirectory/internal/config"
	"github.com/coralbay/divedirectory/internal/db"
	"github.com/coralbay/divedirectory/internal/geocode"
	"github.com/coralbay/divedirectory/internal/handlers"
	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/middleware"
	"github.com/coralbay/divedirectory/internal/services"
	"github.com/coralbay/divedirectory/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	database := db.Connect(cfg.MongoURI, cfg.MongoDB)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	cancel()

	photos, err := storage.NewPhotoStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MinIO")
	}

	geocoder := geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderAPIKey)

	authSvc := services.NewAuthService(database, cfg.JWTSecret, cfg.JWTExpire)
	userSvc := services.NewUserService(database)
	centerSvc := services.NewDiveCenterService(database, geocoder, photos, cfg.MaxFileUpload)
	courseSvc := services.NewCourseService(database)
	reviewSvc := services.NewReviewService(database)

	app := fiber.New(fiber.Config{
		ErrorHandler: httperr.Handler,
		BodyLimit:    int(cfg.MaxFileUpload) * 2,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	handlers.Mount(app,
		middleware.NewAuth(cfg.JWTSecret),
		handlers.NewAuthHandler(authSvc, cfg.JWTCookieExpire),
		handlers.NewUserHandler(userSvc),
		handlers.NewDiveCenterHandler(centerSvc),
		handlers.NewCourseHandler(courseSvc),
		handlers.NewReviewHandler(reviewSvc),
	)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
