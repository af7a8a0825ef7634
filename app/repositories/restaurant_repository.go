package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/pkg/apperr"
)

// RestaurantQuery holds list filters. Keyword is matched case-insensitively
// against the restaurant name.
type RestaurantQuery struct {
	Keyword string
	Skip    int64
	Limit   int64
}

// RestaurantRepository handles database operations for Restaurant.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	Find(ctx context.Context, q RestaurantQuery) ([]models.Restaurant, error)
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	UpdateByID(ctx context.Context, id string, set bson.M) (*models.Restaurant, error)
	DeleteByID(ctx context.Context, id string) error
	SetImages(ctx context.Context, id string, images []models.Image) (*models.Restaurant, error)
	RemoveImage(ctx context.Context, id, key string) (*models.Restaurant, error)
	PushMeal(ctx context.Context, restaurantID, mealID primitive.ObjectID) error
	PullMeal(ctx context.Context, restaurantID, mealID primitive.ObjectID) error
}

type mongoRestaurantRepository struct {
	col *mongo.Collection
}

func NewRestaurantRepository(col *mongo.Collection) RestaurantRepository {
	return &mongoRestaurantRepository{col: col}
}

func (r *mongoRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	now := time.Now().UTC()
	restaurant.CreatedAt = now
	restaurant.UpdatedAt = now
	if restaurant.Images == nil {
		restaurant.Images = []models.Image{}
	}
	if restaurant.Menu == nil {
		restaurant.Menu = []primitive.ObjectID{}
	}

	res, err := r.col.InsertOne(ctx, restaurant)
	if err != nil {
		return mapWriteErr(err, "Duplicate restaurant entered")
	}
	restaurant.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRestaurantRepository) Find(ctx context.Context, q RestaurantQuery) ([]models.Restaurant, error) {
	filter := bson.M{}
	if q.Keyword != "" {
		filter["name"] = bson.M{"$regex": q.Keyword, "$options": "i"}
	}

	opts := options.Find().SetSkip(q.Skip).SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	restaurants := []models.Restaurant{}
	if err := cur.All(ctx, &restaurants); err != nil {
		return nil, apperr.Internal(err)
	}
	return restaurants, nil
}

func (r *mongoRestaurantRepository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Restaurant not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &restaurant, nil
}

// UpdateByID applies set as a $set document and returns the updated record.
func (r *mongoRestaurantRepository) UpdateByID(ctx context.Context, id string, set bson.M) (*models.Restaurant, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now().UTC()

	var restaurant models.Restaurant
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Restaurant not found")
	}
	if err != nil {
		return nil, mapWriteErr(err, "Duplicate restaurant entered")
	}
	return &restaurant, nil
}

func (r *mongoRestaurantRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Restaurant not found")
	}
	return nil
}

// SetImages replaces the restaurant's images array wholesale.
func (r *mongoRestaurantRepository) SetImages(ctx context.Context, id string, images []models.Image) (*models.Restaurant, error) {
	return r.UpdateByID(ctx, id, bson.M{"images": images})
}

// RemoveImage pulls a single image from the array by storage key.
func (r *mongoRestaurantRepository) RemoveImage(ctx context.Context, id, key string) (*models.Restaurant, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$pull": bson.M{"images": bson.M{"key": key}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Restaurant not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &restaurant, nil
}

// PushMeal appends a meal reference to the restaurant's menu.
func (r *mongoRestaurantRepository) PushMeal(ctx context.Context, restaurantID, mealID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, restaurantID, bson.M{
		"$push": bson.M{"menu": mealID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// PullMeal removes a meal reference from the restaurant's menu.
func (r *mongoRestaurantRepository) PullMeal(ctx context.Context, restaurantID, mealID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, restaurantID, bson.M{
		"$pull": bson.M{"menu": mealID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}
