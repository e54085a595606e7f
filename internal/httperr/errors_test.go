package httperr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFromMongoNoDocuments(t *testing.T) {
	err := FromMongo(mongo.ErrNoDocuments)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusNotFound, apiErr.StatusCode)
}

func TestFromMongoDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	err := FromMongo(dup)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Duplicate field value entered", apiErr.Message)
}

func TestFromMongoPassesUnknownThrough(t *testing.T) {
	unknown := errors.New("connection reset")

	assert.Equal(t, unknown, FromMongo(unknown))
}

func TestFromMongoNil(t *testing.T) {
	assert.NoError(t, FromMongo(nil))
}

func TestHandlerRendersTaxonomy(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return NotFound("DiveCenter not found with id of %s", "abc")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("disk on fire")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "DiveCenter not found with id of abc", envelope.Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "Server Error", envelope.Error)
}
