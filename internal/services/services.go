// Package services owns the business logic for every resource. Each
// service holds the collections it works with; nothing reaches into
// process-wide state.
package services

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coralbay/divedirectory/internal/httperr"
)

var validate = validator.New()

// afterUpdate makes FindOneAndUpdate return the post-update document.
func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// objectID parses an id path parameter. A malformed id behaves like a
// missing resource, not a client error.
func objectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, httperr.NotFound("Resource not found")
	}
	return id, nil
}
