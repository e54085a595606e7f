package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleUser      = "user"
	RolePublisher = "publisher"
	RoleAdmin     = "admin"
)

type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                string             `bson:"name" json:"name" validate:"required"`
	Email               string             `bson:"email" json:"email" validate:"required,email"`
	Role                string             `bson:"role" json:"role" validate:"omitempty,oneof=user publisher admin"`
	Password            string             `bson:"password,omitempty" json:"-"`
	ResetPasswordToken  string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire time.Time          `bson:"reset_password_expire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}
