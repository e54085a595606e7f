package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralbay/divedirectory/internal/models"
)

func TestCanMutateOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	actor := Actor{ID: owner, Role: models.RolePublisher}

	assert.True(t, CanMutate(actor, owner))
}

func TestCanMutateDeniesNonOwner(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RolePublisher}

	assert.False(t, CanMutate(actor, primitive.NewObjectID()))
}

func TestCanMutateAdminOverridesOwnership(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	assert.True(t, CanMutate(actor, primitive.NewObjectID()))
}

func TestCanMutateDeniesPlainUserOnOthersResource(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}

	assert.False(t, CanMutate(actor, primitive.NewObjectID()))
}
