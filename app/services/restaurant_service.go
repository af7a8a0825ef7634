package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/repositories"
	"github.com/forkful/forkful/pkg/geocode"
	"github.com/forkful/forkful/pkg/logger"
	"github.com/forkful/forkful/pkg/storage"
	"github.com/forkful/forkful/pkg/workerpool"
)

// PerPage is the fixed page size for listings.
const PerPage = 4

// CreateRestaurantInput is the validated creation payload.
type CreateRestaurantInput struct {
	Name        string
	Description string
	Email       string
	PhoneNo     string
	Address     string
	Category    string
}

// UpdateRestaurantInput is the validated partial-update payload. Nil fields
// are left untouched.
type UpdateRestaurantInput struct {
	Name        *string
	Description *string
	Email       *string
	PhoneNo     *string
	Address     *string
	Category    *string
}

// UploadFile is one file from a multipart upload.
type UploadFile struct {
	Name    string
	Content []byte
}

// RestaurantService implements restaurant CRUD, geocoding and image storage.
type RestaurantService struct {
	restaurants repositories.RestaurantRepository
	geocoder    geocode.Geocoder
	disk        storage.Disk
	pool        *workerpool.Pool
}

func NewRestaurantService(
	restaurants repositories.RestaurantRepository,
	geocoder geocode.Geocoder,
	disk storage.Disk,
	pool *workerpool.Pool,
) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		geocoder:    geocoder,
		disk:        disk,
		pool:        pool,
	}
}

// FindAll lists restaurants, PerPage at a time. keyword filters by name,
// case-insensitively; currentPage defaults to 1.
func (s *RestaurantService) FindAll(ctx context.Context, keyword string, currentPage int) ([]models.Restaurant, error) {
	if currentPage < 1 {
		currentPage = 1
	}
	return s.restaurants.Find(ctx, repositories.RestaurantQuery{
		Keyword: keyword,
		Skip:    int64(PerPage * (currentPage - 1)),
		Limit:   PerPage,
	})
}

// Create persists a new restaurant owned by user. The address is geocoded;
// when the geocoder fails the restaurant is stored with no location and the
// failure is logged, never surfaced to the client.
func (s *RestaurantService) Create(ctx context.Context, in CreateRestaurantInput, user *models.User) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{
		Name:        in.Name,
		Description: in.Description,
		Email:       in.Email,
		PhoneNo:     in.PhoneNo,
		Address:     in.Address,
		Category:    in.Category,
		Location:    s.locate(ctx, in.Address),
		User:        user.ID,
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// locate resolves the address to a GeoJSON point, or nil on failure.
func (s *RestaurantService) locate(ctx context.Context, address string) *models.Location {
	res, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		logger.WithCtx(ctx).Warn("restaurant: geocoding failed, storing without location",
			"address", address, "error", err)
		return nil
	}
	return &models.Location{
		Type:             "Point",
		Coordinates:      []float64{res.Longitude, res.Latitude},
		FormattedAddress: res.FormattedAddress,
		City:             res.City,
		State:            res.State,
		Zipcode:          res.Zipcode,
		Country:          res.Country,
	}
}

// FindByID returns one restaurant by hex id.
func (s *RestaurantService) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return s.restaurants.FindByID(ctx, id)
}

// UpdateByID applies a partial update and returns the updated record. When
// the address changes the location is re-geocoded under the same fallback
// contract as Create. Ownership is the caller's responsibility.
func (s *RestaurantService) UpdateByID(ctx context.Context, id string, in UpdateRestaurantInput) (*models.Restaurant, error) {
	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.PhoneNo != nil {
		set["phoneNo"] = *in.PhoneNo
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Address != nil {
		set["address"] = *in.Address
		set["location"] = s.locate(ctx, *in.Address)
	}
	return s.restaurants.UpdateByID(ctx, id, set)
}

// DeleteByID removes the record unconditionally. Callers drain the images
// first and keep the record when that fails.
func (s *RestaurantService) DeleteByID(ctx context.Context, id string) error {
	return s.restaurants.DeleteByID(ctx, id)
}

// UploadImages stores files concurrently through the worker pool and
// replaces the restaurant's images array with the new set. Keys are
// restaurants/<id>/<uuid><ext> so a restaurant's objects share one prefix.
func (s *RestaurantService) UploadImages(ctx context.Context, id string, files []UploadFile) (*models.Restaurant, error) {
	// Fail fast on a bad id before touching object storage.
	if _, err := s.restaurants.FindByID(ctx, id); err != nil {
		return nil, err
	}

	images := make([]models.Image, len(files))
	err := workerpool.Each(s.pool, len(files), func(i int) error {
		key := fmt.Sprintf("restaurants/%s/%s%s", id, uuid.NewString(), filepath.Ext(files[i].Name))
		if err := s.disk.Put(ctx, key, bytes.NewReader(files[i].Content)); err != nil {
			return err
		}
		images[i] = models.Image{Key: key, URL: s.disk.URL(key)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.restaurants.SetImages(ctx, id, images)
}

// DeleteImages removes the given images from object storage. Reports true
// when every object is gone, false when the batch delete failed; callers use
// the result to decide whether the owning record may be removed.
func (s *RestaurantService) DeleteImages(ctx context.Context, images []models.Image) bool {
	if len(images) == 0 {
		return true
	}

	keys := make([]string, len(images))
	for i, img := range images {
		keys[i] = img.Key
	}
	if err := s.disk.DeleteAll(ctx, keys); err != nil {
		logger.WithCtx(ctx).Error("restaurant: image drain failed", "error", err)
		return false
	}
	return true
}

// DetachImage removes a single image from storage and from the restaurant's
// images array, returning the updated record.
func (s *RestaurantService) DetachImage(ctx context.Context, id, key string) (*models.Restaurant, error) {
	if err := s.disk.Delete(ctx, key); err != nil {
		return nil, err
	}
	return s.restaurants.RemoveImage(ctx, id, key)
}

// PushMeal and PullMeal maintain the denormalized menu array.
func (s *RestaurantService) PushMeal(ctx context.Context, restaurantID, mealID primitive.ObjectID) error {
	return s.restaurants.PushMeal(ctx, restaurantID, mealID)
}

func (s *RestaurantService) PullMeal(ctx context.Context, restaurantID, mealID primitive.ObjectID) error {
	return s.restaurants.PullMeal(ctx, restaurantID, mealID)
}
