package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant categories.
const (
	CategoryFastFood   = "Fast Food"
	CategoryCafe       = "Cafe"
	CategoryFineDining = "Fine Dining"
)

// RestaurantCategories lists every accepted category value.
var RestaurantCategories = []string{CategoryFastFood, CategoryCafe, CategoryFineDining}

// Location is a GeoJSON point resolved from the restaurant's free-text
// address by the geocoder. Coordinates are [longitude, latitude].
type Location struct {
	Type             string    `bson:"type" json:"type"`
	Coordinates      []float64 `bson:"coordinates" json:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty" json:"formattedAddress,omitempty"`
	City             string    `bson:"city,omitempty" json:"city,omitempty"`
	State            string    `bson:"state,omitempty" json:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty" json:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty" json:"country,omitempty"`
}

// Image is a stored object descriptor: the storage key plus its public URL.
type Image struct {
	Key string `bson:"key" json:"key"`
	URL string `bson:"url" json:"url"`
}

// Restaurant is the central directory record. User is set once at creation to
// the authenticated creator and never changes; Menu holds back-references to
// the restaurant's meals.
type Restaurant struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Email       string               `bson:"email" json:"email"`
	PhoneNo     string               `bson:"phoneNo" json:"phoneNo"`
	Address     string               `bson:"address" json:"address"`
	Category    string               `bson:"category" json:"category"`
	Location    *Location            `bson:"location,omitempty" json:"location,omitempty"`
	Images      []Image              `bson:"images" json:"images"`
	Menu        []primitive.ObjectID `bson:"menu" json:"menu"`
	User        primitive.ObjectID   `bson:"user" json:"user"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the record belongs to the given user.
func (r *Restaurant) OwnedBy(userID primitive.ObjectID) bool {
	return r.User == userID
}
