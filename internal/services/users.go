package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coralbay/divedirectory/internal/db"
	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/models"
	"github.com/coralbay/divedirectory/internal/query"
)

// UserService is the admin-only user CRUD.
type UserService struct {
	users *mongo.Collection
}

func NewUserService(database *mongo.Database) *UserService {
	return &UserService{users: database.Collection(db.UsersCollection)}
}

func (s *UserService) List(ctx context.Context, params map[string]string) (*query.Result, error) {
	return query.Execute(ctx, s.users, query.ParsePlan(params))
}

func (s *UserService) Get(ctx context.Context, idHex string) (models.User, error) {
	id, err := objectID(idHex)
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, httperr.FromMongo(err)
	}
	return user, nil
}

type UserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	if err := validate.Struct(in); err != nil {
		return models.User{}, httperr.FromValidation(err)
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
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
		return models.User{}, httperr.FromMongo(err)
	}
	return user, nil
}

type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

func (s *UserService) Update(ctx context.Context, idHex string, in UserUpdate) (models.User, error) {
	id, err := objectID(idHex)
	if err != nil {
		return models.User{}, err
	}
	if err := validate.Struct(in); err != nil {
		return models.User{}, httperr.FromValidation(err)
	}

	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Role != nil {
		set["role"] = *in.Role
	}
	if in.Password != nil {
		hashed, err := HashPassword(*in.Password)
		if err != nil {
			return models.User{}, err
		}
		set["password"] = hashed
	}
	if len(set) == 0 {
		return s.Get(ctx, idHex)
	}

	var user models.User
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, afterUpdate()).Decode(&user)
	if err != nil {
		return models.User{}, httperr.FromMongo(err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, idHex string) error {
	id, err := objectID(idHex)
	if err != nil {
		return err
	}
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return httperr.NotFound("User not found with id of %s", idHex)
	}
	return nil
}
