package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/repositories"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/logger"
)

// CreateMealInput is the validated meal creation payload.
type CreateMealInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Restaurant  string
}

// UpdateMealInput is the validated partial-update payload.
type UpdateMealInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
}

// MealService implements meal CRUD and keeps the owning restaurant's menu
// array in sync.
type MealService struct {
	meals       repositories.MealRepository
	restaurants repositories.RestaurantRepository
}

func NewMealService(meals repositories.MealRepository, restaurants repositories.RestaurantRepository) *MealService {
	return &MealService{meals: meals, restaurants: restaurants}
}

// FindAll lists every meal.
func (s *MealService) FindAll(ctx context.Context) ([]models.Meal, error) {
	return s.meals.Find(ctx, repositories.MealQuery{})
}

// FindByRestaurant lists the meals of one restaurant.
func (s *MealService) FindByRestaurant(ctx context.Context, restaurantID string) ([]models.Meal, error) {
	oid, err := primitive.ObjectIDFromHex(restaurantID)
	if err != nil {
		return nil, apperr.BadRequest("invalid id")
	}
	return s.meals.Find(ctx, repositories.MealQuery{Restaurant: &oid})
}

// FindByID returns one meal by hex id.
func (s *MealService) FindByID(ctx context.Context, id string) (*models.Meal, error) {
	return s.meals.FindByID(ctx, id)
}

// Create inserts a meal into an existing restaurant owned by user, then
// appends the meal to the restaurant's menu. The two writes are not atomic;
// a failed menu push leaves a meal reachable only through the meals
// collection and is logged.
func (s *MealService) Create(ctx context.Context, in CreateMealInput, user *models.User) (*models.Meal, error) {
	restaurant, err := s.restaurants.FindByID(ctx, in.Restaurant)
	if err != nil {
		return nil, err
	}
	if !restaurant.OwnedBy(user.ID) {
		return nil, apperr.Forbidden("You can not add meal to this restaurant")
	}

	meal := &models.Meal{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Restaurant:  restaurant.ID,
		User:        user.ID,
	}
	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, err
	}

	if err := s.restaurants.PushMeal(ctx, restaurant.ID, meal.ID); err != nil {
		logger.WithCtx(ctx).Error("meal: menu push failed",
			"meal", meal.ID.Hex(), "restaurant", restaurant.ID.Hex(), "error", err)
	}
	return meal, nil
}

// UpdateByID applies a partial update. Ownership is the caller's
// responsibility.
func (s *MealService) UpdateByID(ctx context.Context, id string, in UpdateMealInput) (*models.Meal, error) {
	set := bson.M{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Price != nil {
		set["price"] = *in.Price
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	return s.meals.UpdateByID(ctx, id, set)
}

// DeleteByID removes the meal and pulls its reference from the owning
// restaurant's menu.
func (s *MealService) DeleteByID(ctx context.Context, id string) error {
	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.meals.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.restaurants.PullMeal(ctx, meal.Restaurant, meal.ID); err != nil {
		logger.WithCtx(ctx).Error("meal: menu pull failed",
			"meal", meal.ID.Hex(), "restaurant", meal.Restaurant.Hex(), "error", err)
	}
	return nil
}
