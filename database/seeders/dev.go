package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("sample_restaurants", SeedSampleRestaurants)
}

// SeedAdminUser upserts a development admin account
// (admin@forkful.dev / password).
func SeedAdminUser(ctx context.Context, db *mongo.Database) error {
	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"email": "admin@forkful.dev"},
		bson.M{
			"$setOnInsert": bson.M{
				"name":      "Admin",
				"email":     "admin@forkful.dev",
				"password":  hash,
				"role":      models.RoleAdmin,
				"createdAt": now,
				"updatedAt": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// SeedSampleRestaurants inserts a couple of restaurants owned by the admin
// user, for local development only. Skips when restaurants already exist.
func SeedSampleRestaurants(ctx context.Context, db *mongo.Database) error {
	count, err := db.Collection("restaurants").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var admin models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@forkful.dev"}).Decode(&admin); err != nil {
		return err
	}

	now := time.Now().UTC()
	docs := []interface{}{
		models.Restaurant{
			ID:          primitive.NewObjectID(),
			Name:        "Pasta Palace",
			Description: "Fresh pasta made daily",
			Email:       "hello@pastapalace.dev",
			PhoneNo:     "15550100001",
			Address:     "200 Olympic Dr, Stafford, VS, 22554",
			Category:    models.CategoryFineDining,
			Menu:        []primitive.ObjectID{},
			Images:      []models.Image{},
			User:        admin.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		models.Restaurant{
			ID:          primitive.NewObjectID(),
			Name:        "Burger Barn",
			Description: "Smash burgers and fries",
			Email:       "hi@burgerbarn.dev",
			PhoneNo:     "15550100002",
			Address:     "1 Market St, San Francisco, CA, 94105",
			Category:    models.CategoryFastFood,
			Menu:        []primitive.ObjectID{},
			Images:      []models.Image{},
			User:        admin.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	_, err = db.Collection("restaurants").InsertMany(ctx, docs)
	return err
}
