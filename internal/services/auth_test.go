package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralbay/divedirectory/internal/models"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword("hunter22", hash))
	assert.False(t, VerifyPassword("hunter23", hash))
}

func TestTokenCarriesIdentityAndRole(t *testing.T) {
	svc := &AuthService{jwtSecret: []byte("test-secret"), jwtExpire: time.Hour}
	user := models.User{ID: primitive.NewObjectID(), Role: models.RolePublisher}

	signed, err := svc.Token(user)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.Hex(), claims["user_id"])
	assert.Equal(t, models.RolePublisher, claims["role"])
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, hashToken("abc"), hashToken("abc"))
	assert.NotEqual(t, hashToken("abc"), hashToken("abd"))
	assert.Len(t, hashToken("abc"), 64)
}

func TestObjectIDRejectsMalformedHex(t *testing.T) {
	_, err := objectID("not-a-hex-id")
	require.Error(t, err)
	assert.Equal(t, "Resource not found", err.Error())

	id := primitive.NewObjectID()
	parsed, err := objectID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}
