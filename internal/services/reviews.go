package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coralbay/divedirectory/internal/db"
	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/models"
	"github.com/coralbay/divedirectory/internal/policy"
	"github.com/coralbay/divedirectory/internal/query"
)

// ReviewService owns reviews and keeps the parent dive center's
// averageRating up to date. One review per user per dive center, enforced
// by a unique index.
type ReviewService struct {
	reviews *mongo.Collection
	centers *mongo.Collection
}

func NewReviewService(database *mongo.Database) *ReviewService {
	return &ReviewService{
		reviews: database.Collection(db.ReviewsCollection),
		centers: database.Collection(db.DiveCentersCollection),
	}
}

// List runs the advanced query with the parent dive center embedded.
func (s *ReviewService) List(ctx context.Context, params map[string]string) (*query.Result, error) {
	return query.Execute(ctx, s.reviews, query.ParsePlan(params),
		query.Ref{Path: "dive_center", From: s.centers, Select: centerSummary})
}

// ListByCenter returns all reviews under one dive center, unpaginated.
func (s *ReviewService) ListByCenter(ctx context.Context, centerHex string) ([]models.Review, error) {
	centerID, err := objectID(centerHex)
	if err != nil {
		return nil, err
	}
	cursor, err := s.reviews.Find(ctx, bson.M{"dive_center": centerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Get returns a review with its dive center's name and description
// embedded.
func (s *ReviewService) Get(ctx context.Context, idHex string) (bson.M, error) {
	id, err := objectID(idHex)
	if err != nil {
		return nil, err
	}
	var review bson.M
	if err := s.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound("Review not found with the id of %s", idHex)
		}
		return nil, err
	}
	if err := query.PopulateOne(ctx, review, query.Ref{Path: "dive_center", From: s.centers, Select: centerSummary}); err != nil {
		return nil, err
	}
	return review, nil
}

type ReviewInput struct {
	Title  string  `json:"title" validate:"required,max=100"`
	Text   string  `json:"text" validate:"required"`
	Rating float64 `json:"rating" validate:"required,min=1,max=10"`
}

// Create adds a review under a dive center. Any authenticated user may
// review any existing center, once. The averageRating recompute runs in
// the background once the review is saved.
func (s *ReviewService) Create(ctx context.Context, actor policy.Actor, centerHex string, in ReviewInput) (models.Review, error) {
	centerID, err := objectID(centerHex)
	if err != nil {
		return models.Review{}, err
	}

	if err := s.centers.FindOne(ctx, bson.M{"_id": centerID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Review{}, httperr.NotFound("DiveCenter not found with the id of %s", centerHex)
		}
		return models.Review{}, err
	}
	if err := validate.Struct(in); err != nil {
		return models.Review{}, httperr.FromValidation(err)
	}

	review := models.Review{
		ID:         primitive.NewObjectID(),
		Title:      in.Title,
		Text:       in.Text,
		Rating:     in.Rating,
		DiveCenter: centerID,
		User:       actor.ID,
		CreatedAt:  time.Now(),
	}
	if _, err := s.reviews.InsertOne(ctx, review); err != nil {
		return models.Review{}, httperr.FromMongo(err)
	}

	go s.recomputeAverageRating(centerID)
	return review, nil
}

type ReviewUpdate struct {
	Title  *string  `json:"title" validate:"omitempty,max=100"`
	Text   *string  `json:"text"`
	Rating *float64 `json:"rating" validate:"omitempty,min=1,max=10"`
}

func (s *ReviewService) Update(ctx context.Context, actor policy.Actor, idHex string, in ReviewUpdate) (models.Review, error) {
	review, err := s.load(ctx, idHex)
	if err != nil {
		return models.Review{}, err
	}
	if !policy.CanMutate(actor, review.User) {
		return models.Review{}, httperr.NotAuthorized("Not authorized to update review")
	}
	if err := validate.Struct(in); err != nil {
		return models.Review{}, httperr.FromValidation(err)
	}

	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Text != nil {
		set["text"] = *in.Text
	}
	if in.Rating != nil {
		set["rating"] = *in.Rating
	}
	if len(set) == 0 {
		return review, nil
	}

	var updated models.Review
	err = s.reviews.FindOneAndUpdate(ctx, bson.M{"_id": review.ID}, bson.M{"$set": set}, afterUpdate()).Decode(&updated)
	if err != nil {
		return models.Review{}, httperr.FromMongo(err)
	}
	return updated, nil
}

// Delete removes a review and recomputes the parent's averageRating
// before returning.
func (s *ReviewService) Delete(ctx context.Context, actor policy.Actor, idHex string) error {
	review, err := s.load(ctx, idHex)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, review.User) {
		return httperr.NotAuthorized("Not authorized to delete review")
	}

	if _, err := s.reviews.DeleteOne(ctx, bson.M{"_id": review.ID}); err != nil {
		return err
	}

	s.recomputeAverageRating(review.DiveCenter)
	return nil
}

func (s *ReviewService) load(ctx context.Context, idHex string) (models.Review, error) {
	id, err := objectID(idHex)
	if err != nil {
		return models.Review{}, err
	}
	var review models.Review
	if err := s.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Review{}, httperr.NotFound("Review not found with the id of %s", idHex)
		}
		return models.Review{}, err
	}
	return review, nil
}

func (s *ReviewService) recomputeAverageRating(centerID primitive.ObjectID) {
	recomputeAverage(s.reviews, s.centers, "dive_center", centerID, "rating", "average_rating", roundIdentity)
}
