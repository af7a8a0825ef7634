package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meal categories.
const (
	MealSoups  = "Soups"
	MealSalads = "Salads"
	MealPasta  = "Pasta"
	MealPizza  = "Pizza"
)

// MealCategories lists every accepted meal category value.
var MealCategories = []string{MealSoups, MealSalads, MealPasta, MealPizza}

// Meal is a menu entry. Restaurant is the authoritative owning-restaurant
// reference; User mirrors the restaurant's owner at creation time and is the
// sole party allowed to mutate the meal.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Restaurant  primitive.ObjectID `bson:"restaurant" json:"restaurant"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the meal belongs to the given user.
func (m *Meal) OwnedBy(userID primitive.ObjectID) bool {
	return m.User == userID
}
