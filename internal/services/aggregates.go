package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoundCeilTen rounds a cost average up to the nearest 10.
func RoundCeilTen(v float64) float64 {
	return math.Ceil(v/10) * 10
}

func roundIdentity(v float64) float64 {
	return v
}

// recomputeAverage re-derives a parent's aggregate field from its
// children: group the children by parent reference, average sourceField,
// round, persist on targetField. Best effort; failures are logged and
// swallowed, never surfaced to the caller. With no children left the
// target field is unset.
func recomputeAverage(children, parents *mongo.Collection, parentField string, parentID primitive.ObjectID, sourceField, targetField string, round func(float64) float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := children.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{parentField: parentID}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$" + parentField,
			"avg": bson.M{"$avg": "$" + sourceField},
		}}},
	})
	if err != nil {
		log.Error().Err(err).Str("field", targetField).Msg("aggregate recompute failed")
		return
	}

	var groups []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		log.Error().Err(err).Str("field", targetField).Msg("aggregate recompute decode failed")
		return
	}

	var update bson.M
	if len(groups) == 0 {
		update = bson.M{"$unset": bson.M{targetField: ""}}
	} else {
		update = bson.M{"$set": bson.M{targetField: round(groups[0].Avg)}}
	}

	if _, err := parents.UpdateByID(ctx, parentID, update); err != nil {
		log.Error().Err(err).Str("field", targetField).Msg("aggregate recompute update failed")
	}
}
