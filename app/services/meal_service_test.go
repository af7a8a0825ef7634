package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/app/services"
	"github.com/forkful/forkful/pkg/apperr"
	"github.com/forkful/forkful/pkg/testkit"
)

func seedRestaurant(t *testing.T, repo *testkit.RestaurantRepo, user *models.User) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		Name: "Pasta Palace", Category: models.CategoryFineDining, User: user.ID,
	}
	require.NoError(t, repo.Create(context.Background(), restaurant))
	return restaurant
}

func TestMealCreateAppendsToMenu(t *testing.T) {
	restaurants := testkit.NewRestaurantRepo()
	meals := testkit.NewMealRepo()
	svc := services.NewMealService(meals, restaurants)
	ctx := context.Background()

	user := owner()
	restaurant := seedRestaurant(t, restaurants, user)

	meal, err := svc.Create(ctx, services.CreateMealInput{
		Name: "Carbonara", Description: "Egg and guanciale", Price: 14.5,
		Category: models.MealPasta, Restaurant: restaurant.ID.Hex(),
	}, user)
	require.NoError(t, err)

	assert.Equal(t, user.ID, meal.User, "owner is set server-side")
	assert.Equal(t, restaurant.ID, meal.Restaurant)

	stored, err := restaurants.FindByID(ctx, restaurant.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{meal.ID}, stored.Menu)
}

func TestMealCreateUnknownRestaurant(t *testing.T) {
	svc := services.NewMealService(testkit.NewMealRepo(), testkit.NewRestaurantRepo())

	_, err := svc.Create(context.Background(), services.CreateMealInput{
		Name: "Carbonara", Description: "d", Price: 14.5,
		Category: models.MealPasta, Restaurant: primitive.NewObjectID().Hex(),
	}, owner())
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestMealCreateForeignRestaurantForbidden(t *testing.T) {
	restaurants := testkit.NewRestaurantRepo()
	svc := services.NewMealService(testkit.NewMealRepo(), restaurants)

	restaurant := seedRestaurant(t, restaurants, owner())

	_, err := svc.Create(context.Background(), services.CreateMealInput{
		Name: "Carbonara", Description: "d", Price: 14.5,
		Category: models.MealPasta, Restaurant: restaurant.ID.Hex(),
	}, owner()) // different user
	assert.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
}

func TestMealFindByRestaurant(t *testing.T) {
	restaurants := testkit.NewRestaurantRepo()
	meals := testkit.NewMealRepo()
	svc := services.NewMealService(meals, restaurants)
	ctx := context.Background()

	user := owner()
	first := seedRestaurant(t, restaurants, user)
	second := seedRestaurant(t, restaurants, user)

	_, err := svc.Create(ctx, services.CreateMealInput{
		Name: "Minestrone", Description: "d", Price: 8,
		Category: models.MealSoups, Restaurant: first.ID.Hex(),
	}, user)
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.CreateMealInput{
		Name: "Margherita", Description: "d", Price: 12,
		Category: models.MealPizza, Restaurant: second.ID.Hex(),
	}, user)
	require.NoError(t, err)

	got, err := svc.FindByRestaurant(ctx, first.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Minestrone", got[0].Name)

	_, err = svc.FindByRestaurant(ctx, "bogus")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
}

func TestMealUpdatePartial(t *testing.T) {
	restaurants := testkit.NewRestaurantRepo()
	meals := testkit.NewMealRepo()
	svc := services.NewMealService(meals, restaurants)
	ctx := context.Background()

	user := owner()
	restaurant := seedRestaurant(t, restaurants, user)
	meal, err := svc.Create(ctx, services.CreateMealInput{
		Name: "Carbonara", Description: "d", Price: 14.5,
		Category: models.MealPasta, Restaurant: restaurant.ID.Hex(),
	}, user)
	require.NoError(t, err)

	price := 16.0
	updated, err := svc.UpdateByID(ctx, meal.ID.Hex(), services.UpdateMealInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 16.0, updated.Price)
	assert.Equal(t, "Carbonara", updated.Name)
}

// Deleting a meal also removes its reference from the restaurant's menu and
// leaves the restaurant record itself intact.
func TestMealDeletePullsFromMenu(t *testing.T) {
	restaurants := testkit.NewRestaurantRepo()
	meals := testkit.NewMealRepo()
	svc := services.NewMealService(meals, restaurants)
	ctx := context.Background()

	user := owner()
	restaurant := seedRestaurant(t, restaurants, user)
	keep, err := svc.Create(ctx, services.CreateMealInput{
		Name: "Minestrone", Description: "d", Price: 8,
		Category: models.MealSoups, Restaurant: restaurant.ID.Hex(),
	}, user)
	require.NoError(t, err)
	doomed, err := svc.Create(ctx, services.CreateMealInput{
		Name: "Caesar", Description: "d", Price: 9,
		Category: models.MealSalads, Restaurant: restaurant.ID.Hex(),
	}, user)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, doomed.ID.Hex()))

	_, err = svc.FindByID(ctx, doomed.ID.Hex())
	assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))

	stored, err := restaurants.FindByID(ctx, restaurant.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{keep.ID}, stored.Menu)
	assert.Equal(t, "Pasta Palace", stored.Name, "restaurant record untouched")
}
