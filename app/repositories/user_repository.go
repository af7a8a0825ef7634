package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forkful/forkful/app/models"
	"github.com/forkful/forkful/pkg/apperr"
)

// UserRepository handles database operations for User.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type mongoUserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(col *mongo.Collection) UserRepository {
	return &mongoUserRepository{col: col}
}

// Create persists a new user record. A duplicate email surfaces as a 409
// via the unique index on users.email.
func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return mapWriteErr(err, "Duplicate email entered")
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail looks up a user by email, password hash included.
func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

// FindByID looks up a user by hex id.
func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &user, nil
}
