package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/policy"
)

const actorKey = "actor"

// Auth validates JWTs issued by the auth service.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// Protect requires a valid token from the Authorization header or the
// "token" cookie and stores the actor on the request context.
func (a *Auth) Protect(c *fiber.Ctx) error {
	tokenString := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if tokenString == "" {
		tokenString = c.Cookies("token")
	}
	if tokenString == "" || tokenString == "none" {
		return httperr.NotAuthorized("Not authorized to access this route")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return httperr.NotAuthorized("Not authorized to access this route")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return httperr.NotAuthorized("Not authorized to access this route")
	}

	userID, userOK := claims["user_id"].(string)
	role, roleOK := claims["role"].(string)
	if !userOK || !roleOK {
		return httperr.NotAuthorized("Not authorized to access this route")
	}

	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return httperr.NotAuthorized("Not authorized to access this route")
	}

	c.Locals(actorKey, policy.Actor{ID: id, Role: role})
	return c.Next()
}

// Authorize denies the request unless the actor's role is in the given
// set. Must run after Protect.
func Authorize(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)
		if !allowed[actor.Role] {
			return httperr.NotAuthorized("User role %s is not authorized to access this route", actor.Role)
		}
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by Protect. Zero value when the
// route is public.
func ActorFromCtx(c *fiber.Ctx) policy.Actor {
	actor, _ := c.Locals(actorKey).(policy.Actor)
	return actor
}
