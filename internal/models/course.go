package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title        string             `bson:"title" json:"title" validate:"required"`
	Description  string             `bson:"description" json:"description" validate:"required"`
	Days         int                `bson:"days" json:"days" validate:"required"`
	Price        float64            `bson:"price" json:"price" validate:"required"`
	MinimumSkill string             `bson:"minimum_skill" json:"minimum_skill" validate:"required,oneof=beginner intermediate advanced"`
	DiveCenter   primitive.ObjectID `bson:"dive_center" json:"dive_center"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
