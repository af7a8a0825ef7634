package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	Register("20260101000000_users_indexes", usersIndexes)
	Register("20260101000001_restaurants_indexes", restaurantsIndexes)
	Register("20260101000002_meals_indexes", mealsIndexes)
}

func usersIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func restaurantsIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("restaurants")
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})
	return err
}

func mealsIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("meals")
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "restaurant", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	})
	return err
}
