package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePlanDefaults(t *testing.T) {
	plan := ParsePlan(map[string]string{})

	assert.Equal(t, int64(1), plan.Page)
	assert.Equal(t, int64(DefaultLimit), plan.Limit)
	assert.Equal(t, int64(0), plan.Skip())
	assert.Empty(t, plan.Filter)
	assert.Empty(t, plan.Projection)
	require.Len(t, plan.Sort, 1)
	assert.Equal(t, "created_at", plan.Sort[0].Key)
	assert.Equal(t, -1, plan.Sort[0].Value)
}

func TestParsePlanOperatorTranslation(t *testing.T) {
	plan := ParsePlan(map[string]string{
		"price[gt]":  "100",
		"price[lte]": "500",
		"days[gte]":  "2",
		"rating[lt]": "9.5",
	})

	price, ok := plan.Filter["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(100), price["$gt"])
	assert.Equal(t, int64(500), price["$lte"])

	days, ok := plan.Filter["days"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, int64(2), days["$gte"])

	rating, ok := plan.Filter["rating"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, 9.5, rating["$lt"])
}

func TestParsePlanInOperatorSplitsCommas(t *testing.T) {
	plan := ParsePlan(map[string]string{"specialties[in]": "wreck,cave"})

	sub, ok := plan.Filter["specialties"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, []interface{}{"wreck", "cave"}, sub["$in"])
}

func TestParsePlanRejectsUnknownOperators(t *testing.T) {
	plan := ParsePlan(map[string]string{"password[regex]": ".*", "price[where]": "1"})

	assert.Empty(t, plan.Filter)
}

func TestParsePlanExcludesReservedKeys(t *testing.T) {
	plan := ParsePlan(map[string]string{
		"select":        "name",
		"sort":          "price",
		"page":          "2",
		"limit":         "5",
		"minimum_skill": "beginner",
	})

	assert.Equal(t, bson.M{"minimum_skill": "beginner"}, plan.Filter)
}

func TestParsePlanExactMatchScalar(t *testing.T) {
	plan := ParsePlan(map[string]string{"days": "3", "name": "Blue Hole"})

	assert.Equal(t, int64(3), plan.Filter["days"])
	assert.Equal(t, "Blue Hole", plan.Filter["name"])
}

func TestParsePlanMalformedNumberPassesThrough(t *testing.T) {
	plan := ParsePlan(map[string]string{"price[gt]": "10abc"})

	price, ok := plan.Filter["price"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "10abc", price["$gt"])
}

func TestParsePlanSelect(t *testing.T) {
	plan := ParsePlan(map[string]string{"select": "name,description, photo"})

	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "description", Value: 1},
		{Key: "photo", Value: 1},
	}, plan.Projection)
}

func TestParsePlanSort(t *testing.T) {
	plan := ParsePlan(map[string]string{"sort": "-price,name"})

	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "name", Value: 1},
	}, plan.Sort)
}

func TestParsePlanPagination(t *testing.T) {
	plan := ParsePlan(map[string]string{"page": "3", "limit": "10"})

	assert.Equal(t, int64(3), plan.Page)
	assert.Equal(t, int64(10), plan.Limit)
	assert.Equal(t, int64(20), plan.Skip())
}

func TestParsePlanIgnoresInvalidPagination(t *testing.T) {
	plan := ParsePlan(map[string]string{"page": "zero", "limit": "-5"})

	assert.Equal(t, int64(1), plan.Page)
	assert.Equal(t, int64(DefaultLimit), plan.Limit)
}

func TestSplitOperator(t *testing.T) {
	field, op, ok := splitOperator("price[gt]")
	assert.True(t, ok)
	assert.Equal(t, "price", field)
	assert.Equal(t, "gt", op)

	field, _, ok = splitOperator("price")
	assert.False(t, ok)
	assert.Equal(t, "price", field)

	_, _, ok = splitOperator("[gt]")
	assert.False(t, ok)
}
