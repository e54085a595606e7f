package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/coralbay/divedirectory/internal/db"
	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/models"
)

const resetTokenTTL = 10 * time.Minute

// AuthService handles registration, login and password lifecycle.
type AuthService struct {
	users     *mongo.Collection
	jwtSecret []byte
	jwtExpire time.Duration
}

func NewAuthService(database *mongo.Database, jwtSecret string, jwtExpire time.Duration) *AuthService {
	return &AuthService{
		users:     database.Collection(db.UsersCollection),
		jwtSecret: []byte(jwtSecret),
		jwtExpire: jwtExpire,
	}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Token signs a JWT carrying the user id and role.
func (s *AuthService) Token(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.Hex(),
		"role":    user.Role,
		"exp":     time.Now().Add(s.jwtExpire).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

// Register creates a user account and returns it with a fresh token.
// Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	if err := validate.Struct(in); err != nil {
		return models.User{}, "", httperr.FromValidation(err)
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, "", httperr.FromMongo(err)
	}

	token, err := s.Token(user)
	return user, token, err
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if email == "" || password == "" {
		return models.User{}, "", httperr.BadRequest("Please provide an email and password")
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, "", httperr.NotAuthorized("Invalid credentials")
		}
		return models.User{}, "", err
	}

	if !VerifyPassword(password, user.Password) {
		return models.User{}, "", httperr.NotAuthorized("Invalid credentials")
	}

	token, err := s.Token(user)
	return user, token, err
}

// GetByID loads the current user.
func (s *AuthService) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, httperr.FromMongo(err)
	}
	return user, nil
}

type DetailsInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateDetails changes the logged-in user's name and email.
func (s *AuthService) UpdateDetails(ctx context.Context, id primitive.ObjectID, in DetailsInput) (models.User, error) {
	if err := validate.Struct(in); err != nil {
		return models.User{}, httperr.FromValidation(err)
	}
	return s.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"name": in.Name, "email": in.Email}})
}

// UpdatePassword changes the password after checking the current one, and
// issues a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, id primitive.ObjectID, current, newPassword string) (models.User, string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return models.User{}, "", err
	}
	if !VerifyPassword(current, user.Password) {
		return models.User{}, "", httperr.NotAuthorized("Password is incorrect")
	}
	if len(newPassword) < 6 {
		return models.User{}, "", httperr.BadRequest("Password must be at least 6 characters")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return models.User{}, "", err
	}
	user, err = s.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"password": hashed}})
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.Token(user)
	return user, token, err
}

// ForgotPassword stores a hashed reset token with a short expiry and
// returns the raw token. Mail delivery is out of scope; the reset URL is
// logged for the operator.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", httperr.NotFound("There is no user with that email")
		}
		return "", err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	resetToken := hex.EncodeToString(raw)

	_, err = s.users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
		"reset_password_token":  hashToken(resetToken),
		"reset_password_expire": time.Now().Add(resetTokenTTL),
	}})
	if err != nil {
		return "", err
	}

	log.Info().Str("email", email).Msgf("password reset requested, token path: /api/v1/auth/resetpassword/%s", resetToken)
	return resetToken, nil
}

// ResetPassword consumes a reset token, sets the new password and issues a
// token.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) (models.User, string, error) {
	if len(newPassword) < 6 {
		return models.User{}, "", httperr.BadRequest("Password must be at least 6 characters")
	}

	var user models.User
	err := s.users.FindOne(ctx, bson.M{
		"reset_password_token":  hashToken(resetToken),
		"reset_password_expire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, "", httperr.BadRequest("Invalid token")
		}
		return models.User{}, "", err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return models.User{}, "", err
	}

	user, err = s.findAndUpdate(ctx, user.ID, bson.M{
		"$set":   bson.M{"password": hashed},
		"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
	})
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.Token(user)
	return user, token, err
}

func (s *AuthService) findAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (models.User, error) {
	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&user)
	if err != nil {
		return models.User{}, httperr.FromMongo(err)
	}
	return user, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
