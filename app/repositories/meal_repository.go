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

// MealQuery holds list filters for meals.
type MealQuery struct {
	Restaurant *primitive.ObjectID // nil means all restaurants
	Keyword    string
	Skip       int64
	Limit      int64
}

// MealRepository handles database operations for Meal.
type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) error
	Find(ctx context.Context, q MealQuery) ([]models.Meal, error)
	FindByID(ctx context.Context, id string) (*models.Meal, error)
	UpdateByID(ctx context.Context, id string, set bson.M) (*models.Meal, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoMealRepository struct {
	col *mongo.Collection
}

func NewMealRepository(col *mongo.Collection) MealRepository {
	return &mongoMealRepository{col: col}
}

func (r *mongoMealRepository) Create(ctx context.Context, meal *models.Meal) error {
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, meal)
	if err != nil {
		return mapWriteErr(err, "Duplicate meal entered")
	}
	meal.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoMealRepository) Find(ctx context.Context, q MealQuery) ([]models.Meal, error) {
	filter := bson.M{}
	if q.Restaurant != nil {
		filter["restaurant"] = *q.Restaurant
	}
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

	meals := []models.Meal{}
	if err := cur.All(ctx, &meals); err != nil {
		return nil, apperr.Internal(err)
	}
	return meals, nil
}

func (r *mongoMealRepository) FindByID(ctx context.Context, id string) (*models.Meal, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var meal models.Meal
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&meal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Meal not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &meal, nil
}

func (r *mongoMealRepository) UpdateByID(ctx context.Context, id string, set bson.M) (*models.Meal, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now().UTC()

	var meal models.Meal
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&meal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("Meal not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &meal, nil
}

func (r *mongoMealRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Meal not found")
	}
	return nil
}
