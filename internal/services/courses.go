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

// CourseService owns courses and keeps the parent dive center's
// averageCost up to date.
type CourseService struct {
	courses *mongo.Collection
	centers *mongo.Collection
}

func NewCourseService(database *mongo.Database) *CourseService {
	return &CourseService{
		courses: database.Collection(db.CoursesCollection),
		centers: database.Collection(db.DiveCentersCollection),
	}
}

// centerSummary is the projection embedded when populating a course's
// dive center.
var centerSummary = []string{"name", "description"}

// List runs the advanced query with the parent dive center embedded.
func (s *CourseService) List(ctx context.Context, params map[string]string) (*query.Result, error) {
	return query.Execute(ctx, s.courses, query.ParsePlan(params),
		query.Ref{Path: "dive_center", From: s.centers, Select: centerSummary})
}

// ListByCenter returns all courses under one dive center, unpaginated.
func (s *CourseService) ListByCenter(ctx context.Context, centerHex string) ([]models.Course, error) {
	centerID, err := objectID(centerHex)
	if err != nil {
		return nil, err
	}
	cursor, err := s.courses.Find(ctx, bson.M{"dive_center": centerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get returns a course with its dive center's name and description
// embedded.
func (s *CourseService) Get(ctx context.Context, idHex string) (bson.M, error) {
	id, err := objectID(idHex)
	if err != nil {
		return nil, err
	}
	var course bson.M
	if err := s.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, httperr.NotFound("Course not found with the id of %s", idHex)
		}
		return nil, err
	}
	if err := query.PopulateOne(ctx, course, query.Ref{Path: "dive_center", From: s.centers, Select: centerSummary}); err != nil {
		return nil, err
	}
	return course, nil
}

type CourseInput struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Days         int     `json:"days" validate:"required"`
	Price        float64 `json:"price" validate:"required"`
	MinimumSkill string  `json:"minimum_skill" validate:"required,oneof=beginner intermediate advanced"`
}

// Create adds a course under a dive center. Only the center's owner or an
// admin may add courses. The center's averageCost recompute runs in the
// background once the course is saved.
func (s *CourseService) Create(ctx context.Context, actor policy.Actor, centerHex string, in CourseInput) (models.Course, error) {
	centerID, err := objectID(centerHex)
	if err != nil {
		return models.Course{}, err
	}

	var center models.DiveCenter
	if err := s.centers.FindOne(ctx, bson.M{"_id": centerID}).Decode(&center); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, httperr.NotFound("DiveCenter not found with the id of %s", centerHex)
		}
		return models.Course{}, err
	}
	if !policy.CanMutate(actor, center.User) {
		return models.Course{}, httperr.NotAuthorized("User %s is not authorized to add a course to dive center %s", actor.ID.Hex(), center.ID.Hex())
	}
	if err := validate.Struct(in); err != nil {
		return models.Course{}, httperr.FromValidation(err)
	}

	course := models.Course{
		ID:           primitive.NewObjectID(),
		Title:        in.Title,
		Description:  in.Description,
		Days:         in.Days,
		Price:        in.Price,
		MinimumSkill: in.MinimumSkill,
		DiveCenter:   centerID,
		User:         actor.ID,
		CreatedAt:    time.Now(),
	}
	if _, err := s.courses.InsertOne(ctx, course); err != nil {
		return models.Course{}, httperr.FromMongo(err)
	}

	go s.recomputeAverageCost(centerID)
	return course, nil
}

type CourseUpdate struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Days         *int     `json:"days"`
	Price        *float64 `json:"price"`
	MinimumSkill *string  `json:"minimum_skill" validate:"omitempty,oneof=beginner intermediate advanced"`
}

func (s *CourseService) Update(ctx context.Context, actor policy.Actor, idHex string, in CourseUpdate) (models.Course, error) {
	course, err := s.load(ctx, idHex)
	if err != nil {
		return models.Course{}, err
	}
	if !policy.CanMutate(actor, course.User) {
		return models.Course{}, httperr.NotAuthorized("User %s is not authorized to update course %s", actor.ID.Hex(), idHex)
	}
	if err := validate.Struct(in); err != nil {
		return models.Course{}, httperr.FromValidation(err)
	}

	set := bson.M{}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Days != nil {
		set["days"] = *in.Days
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.MinimumSkill != nil {
		set["minimum_skill"] = *in.MinimumSkill
	}
	if len(set) == 0 {
		return course, nil
	}

	var updated models.Course
	err = s.courses.FindOneAndUpdate(ctx, bson.M{"_id": course.ID}, bson.M{"$set": set}, afterUpdate()).Decode(&updated)
	if err != nil {
		return models.Course{}, httperr.FromMongo(err)
	}
	return updated, nil
}

// Delete removes a course and recomputes the parent's averageCost before
// returning, using the parent reference captured from the course itself.
func (s *CourseService) Delete(ctx context.Context, actor policy.Actor, idHex string) error {
	course, err := s.load(ctx, idHex)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, course.User) {
		return httperr.NotAuthorized("User %s is not authorized to delete course %s", actor.ID.Hex(), idHex)
	}

	if _, err := s.courses.DeleteOne(ctx, bson.M{"_id": course.ID}); err != nil {
		return err
	}

	s.recomputeAverageCost(course.DiveCenter)
	return nil
}

func (s *CourseService) load(ctx context.Context, idHex string) (models.Course, error) {
	id, err := objectID(idHex)
	if err != nil {
		return models.Course{}, err
	}
	var course models.Course
	if err := s.courses.FindOne(ctx, bson.M{"_id": id}).Decode(&course); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Course{}, httperr.NotFound("Course not found with the id of %s", idHex)
		}
		return models.Course{}, err
	}
	return course, nil
}

func (s *CourseService) recomputeAverageCost(centerID primitive.ObjectID) {
	recomputeAverage(s.courses, s.centers, "dive_center", centerID, "price", "average_cost", RoundCeilTen)
}
