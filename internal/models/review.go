package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string             `bson:"title" json:"title" validate:"required,max=100"`
	Text       string             `bson:"text" json:"text" validate:"required"`
	Rating     float64            `bson:"rating" json:"rating" validate:"required,min=1,max=10"`
	DiveCenter primitive.ObjectID `bson:"dive_center" json:"dive_center"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
