// Package policy holds the ownership rules applied before any mutation.
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralbay/divedirectory/internal/models"
)

// Actor is the authenticated caller, extracted from the JWT.
type Actor struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanMutate reports whether the actor may modify a resource owned by
// ownerID. Admins may modify anything; everyone else only their own.
func CanMutate(actor Actor, ownerID primitive.ObjectID) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == ownerID
}
