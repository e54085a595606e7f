package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPhoto is stored until a photo is uploaded.
const DefaultPhoto = "no-photo.jpg"

// Location is a GeoJSON Point derived from the submitted address.
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"`
	FormattedAddress string    `bson:"formatted_address,omitempty" json:"formatted_address,omitempty"`
	Street           string    `bson:"street,omitempty" json:"street,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

type DiveCenter struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name" validate:"required,max=50"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description" validate:"required,max=500"`
	Website       string             `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	Phone         string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=20"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Specialties   []string           `bson:"specialties" json:"specialties" validate:"required,min=1"`
	AverageRating float64            `bson:"average_rating,omitempty" json:"average_rating,omitempty"`
	AverageCost   float64            `bson:"average_cost,omitempty" json:"average_cost,omitempty"`
	Photo         string             `bson:"photo" json:"photo"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
