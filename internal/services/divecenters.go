package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coralbay/divedirectory/internal/db"
	"github.com/coralbay/divedirectory/internal/geocode"
	"github.com/coralbay/divedirectory/internal/httperr"
	"github.com/coralbay/divedirectory/internal/models"
	"github.com/coralbay/divedirectory/internal/policy"
	"github.com/coralbay/divedirectory/internal/query"
	"github.com/coralbay/divedirectory/internal/storage"
)

// earthRadiusMiles converts a distance in miles to radians for
// $centerSphere.
const earthRadiusMiles = 3963.0

// DiveCenterService owns the dive-center listings and their photo
// storage.
type DiveCenterService struct {
	centers   *mongo.Collection
	courses   *mongo.Collection
	geocoder  geocode.Geocoder
	photos    *storage.PhotoStore
	maxUpload int64
}

func NewDiveCenterService(database *mongo.Database, geocoder geocode.Geocoder, photos *storage.PhotoStore, maxUpload int64) *DiveCenterService {
	return &DiveCenterService{
		centers:   database.Collection(db.DiveCentersCollection),
		courses:   database.Collection(db.CoursesCollection),
		geocoder:  geocoder,
		photos:    photos,
		maxUpload: maxUpload,
	}
}

// List runs the advanced query with the centers' courses embedded.
func (s *DiveCenterService) List(ctx context.Context, params map[string]string) (*query.Result, error) {
	return query.Execute(ctx, s.centers, query.ParsePlan(params),
		query.Children{Path: "courses", From: s.courses, ForeignKey: "dive_center"})
}

func (s *DiveCenterService) Get(ctx context.Context, idHex string) (models.DiveCenter, error) {
	id, err := objectID(idHex)
	if err != nil {
		return models.DiveCenter{}, err
	}
	var center models.DiveCenter
	if err := s.centers.FindOne(ctx, bson.M{"_id": id}).Decode(&center); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.DiveCenter{}, httperr.NotFound("DiveCenter not found with id of %s", idHex)
		}
		return models.DiveCenter{}, err
	}
	return center, nil
}

type DiveCenterInput struct {
	Name        string   `json:"name" validate:"required,max=50"`
	Description string   `json:"description" validate:"required,max=500"`
	Website     string   `json:"website" validate:"omitempty,url"`
	Phone       string   `json:"phone" validate:"omitempty,max=20"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Address     string   `json:"address" validate:"required"`
	Specialties []string `json:"specialties" validate:"required,min=1"`
}

// Create geocodes and sluggifies the listing before persisting it. A
// non-admin user may publish exactly one dive center.
func (s *DiveCenterService) Create(ctx context.Context, actor policy.Actor, in DiveCenterInput) (models.DiveCenter, error) {
	if err := validate.Struct(in); err != nil {
		return models.DiveCenter{}, httperr.FromValidation(err)
	}

	if !actor.IsAdmin() {
		err := s.centers.FindOne(ctx, bson.M{"user": actor.ID}).Err()
		if err == nil {
			return models.DiveCenter{}, httperr.BadRequest("The user with ID %s has already published a dive center", actor.ID.Hex())
		}
		if err != mongo.ErrNoDocuments {
			return models.DiveCenter{}, err
		}
	}

	location, err := s.locate(ctx, in.Address)
	if err != nil {
		return models.DiveCenter{}, err
	}

	center := models.DiveCenter{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Website:     in.Website,
		Phone:       in.Phone,
		Email:       in.Email,
		Location:    location,
		Specialties: in.Specialties,
		Photo:       models.DefaultPhoto,
		User:        actor.ID,
		CreatedAt:   time.Now(),
	}
	if _, err := s.centers.InsertOne(ctx, center); err != nil {
		return models.DiveCenter{}, httperr.FromMongo(err)
	}
	return center, nil
}

type DiveCenterUpdate struct {
	Name        *string   `json:"name" validate:"omitempty,max=50"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Website     *string   `json:"website" validate:"omitempty,url"`
	Phone       *string   `json:"phone" validate:"omitempty,max=20"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Address     *string   `json:"address"`
	Specialties *[]string `json:"specialties" validate:"omitempty,min=1"`
}

func (s *DiveCenterService) Update(ctx context.Context, actor policy.Actor, idHex string, in DiveCenterUpdate) (models.DiveCenter, error) {
	center, err := s.Get(ctx, idHex)
	if err != nil {
		return models.DiveCenter{}, err
	}
	if !policy.CanMutate(actor, center.User) {
		return models.DiveCenter{}, httperr.NotAuthorized("User %s is not authorized to update this dive center", actor.ID.Hex())
	}
	if err := validate.Struct(in); err != nil {
		return models.DiveCenter{}, httperr.FromValidation(err)
	}

	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
		set["slug"] = slug.Make(*in.Name)
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Website != nil {
		set["website"] = *in.Website
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Specialties != nil {
		set["specialties"] = *in.Specialties
	}
	if in.Address != nil {
		location, err := s.locate(ctx, *in.Address)
		if err != nil {
			return models.DiveCenter{}, err
		}
		set["location"] = location
	}
	if len(set) == 0 {
		return center, nil
	}

	var updated models.DiveCenter
	err = s.centers.FindOneAndUpdate(ctx, bson.M{"_id": center.ID}, bson.M{"$set": set}, afterUpdate()).Decode(&updated)
	if err != nil {
		return models.DiveCenter{}, httperr.FromMongo(err)
	}
	return updated, nil
}

// Delete removes the dive center, cascade-deletes its courses and drops
// the stored photo. Reviews are intentionally left in place.
func (s *DiveCenterService) Delete(ctx context.Context, actor policy.Actor, idHex string) error {
	center, err := s.Get(ctx, idHex)
	if err != nil {
		return err
	}
	if !policy.CanMutate(actor, center.User) {
		return httperr.NotAuthorized("User %s is not authorized to delete this dive center", actor.ID.Hex())
	}

	if _, err := s.courses.DeleteMany(ctx, bson.M{"dive_center": center.ID}); err != nil {
		return err
	}
	if _, err := s.centers.DeleteOne(ctx, bson.M{"_id": center.ID}); err != nil {
		return err
	}
	if center.Photo != models.DefaultPhoto {
		_ = s.photos.Remove(ctx, center.Photo)
	}
	return nil
}

// InRadius finds dive centers within distance miles of an address.
func (s *DiveCenterService) InRadius(ctx context.Context, address string, distanceMiles float64) ([]models.DiveCenter, error) {
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, httperr.BadRequest("Could not geocode address %s", address)
	}

	radius := distanceMiles / earthRadiusMiles
	cursor, err := s.centers.Find(ctx, bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{loc.Longitude, loc.Latitude}, radius},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	centers := []models.DiveCenter{}
	if err := cursor.All(ctx, &centers); err != nil {
		return nil, err
	}
	return centers, nil
}

// UploadPhoto validates and stores a photo, persisting only the object
// name on the document.
func (s *DiveCenterService) UploadPhoto(ctx context.Context, actor policy.Actor, idHex string, file *multipart.FileHeader) (string, error) {
	center, err := s.Get(ctx, idHex)
	if err != nil {
		return "", err
	}
	if !policy.CanMutate(actor, center.User) {
		return "", httperr.NotAuthorized("User %s is not authorized to update this dive center", actor.ID.Hex())
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image") {
		return "", httperr.BadRequest("Please upload an image file")
	}
	if file.Size > s.maxUpload {
		return "", httperr.BadRequest("Please upload an image less than %d bytes", s.maxUpload)
	}

	name := fmt.Sprintf("photo_%s%s", center.ID.Hex(), filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", httperr.Server("Problem with file upload")
	}
	defer src.Close()

	if err := s.photos.Put(ctx, name, src, file.Size, contentType); err != nil {
		return "", httperr.Server("Problem with file upload")
	}

	if _, err := s.centers.UpdateByID(ctx, center.ID, bson.M{"$set": bson.M{"photo": name}}); err != nil {
		return "", err
	}
	return name, nil
}

// locate resolves an address into the stored GeoJSON location. The raw
// address itself is never persisted.
func (s *DiveCenterService) locate(ctx context.Context, address string) (*models.Location, error) {
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, httperr.BadRequest("Could not geocode address %s", address)
	}
	return &models.Location{
		Type:             "Point",
		Coordinates:      []float64{loc.Longitude, loc.Latitude},
		FormattedAddress: loc.FormattedAddress,
		Street:           loc.Street,
		City:             loc.City,
		State:            loc.State,
		Zipcode:          loc.Zipcode,
		Country:          loc.Country,
	}, nil
}
