package db

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	UsersCollection       = "users"
	DiveCentersCollection = "divecenters"
	CoursesCollection     = "courses"
	ReviewsCollection     = "reviews"
)

// Connect initializes the database connection and verifies it with a ping.
func Connect(uri, dbName string) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal().Err(err).Msg("MongoDB connection failed")
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("MongoDB ping failed")
	}

	log.Info().Str("db", dbName).Msg("connected to MongoDB")
	return client.Database(dbName)
}

// EnsureIndexes creates the indexes the invariants rely on: unique user
// emails, unique dive-center names, the 2dsphere index backing radius
// search, and the one-review-per-user-per-center constraint.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(DiveCentersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("divecenters_name_unique"),
		},
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("divecenters_location_2dsphere"),
		},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(ReviewsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "dive_center", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("reviews_center_user_unique"),
	})
	return err
}
