package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings for the API.
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	JWTSecret       string
	JWTExpire       time.Duration
	JWTCookieExpire time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string

	MaxFileUpload int64

	GeocoderURL    string
	GeocoderAPIKey string
}

// Load reads configuration from environment variables with sensible fallbacks.
func Load() Config {
	return Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/dive_directory"),
		MongoDB:  getEnv("MONGO_DB", "dive_directory"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTExpire:       getDuration("JWT_EXPIRE", 4*time.Hour),
		JWTCookieExpire: getDuration("JWT_COOKIE_EXPIRE", 24*time.Hour),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "divecenter-photos"),

		MaxFileUpload: getInt64("MAX_FILE_UPLOAD", 1_000_000),

		GeocoderURL:    getEnv("GEOCODER_URL", "https://geocode.maps.co/search"),
		GeocoderAPIKey: getEnv("GEOCODER_API_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
