package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/models"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID primitive.ObjectID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testApp(extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler})
	auth := NewAuth(testSecret)
	route := append([]fiber.Handler{auth.Protect}, extra...)
	route = append(route, func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)
		return c.JSON(fiber.Map{"user_id": actor.ID.Hex(), "role": actor.Role})
	})
	app.Get("/private", route...)
	return app
}

func TestProtectAcceptsBearerToken(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID(), models.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectAcceptsCookieToken(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, primitive.NewObjectID(), models.RoleUser)})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectRejectsMissingToken(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectRejectsClearedCookie(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "none"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectRejectsWrongSignature(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": primitive.NewObjectID().Hex(),
		"role":    models.RoleUser,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	app := testApp()
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+forged)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizeAllowsListedRole(t *testing.T) {
	app := testApp(Authorize(models.RolePublisher, models.RoleAdmin))
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID(), models.RolePublisher))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthorizeDeniesUnlistedRole(t *testing.T) {
	app := testApp(Authorize(models.RolePublisher, models.RoleAdmin))
	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, primitive.NewObjectID(), models.RoleUser))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
