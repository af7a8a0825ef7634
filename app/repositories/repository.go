// Package repositories contains the MongoDB persistence layer.
//
// Each repository is an interface plus a Mongo-backed implementation so
// services can be tested against in-memory fakes. Driver errors are mapped
// to the application error taxonomy here: malformed ObjectIDs become 400s,
// missing documents become 404s and duplicate keys become 409s.
package repositories

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/forkful/forkful/pkg/apperr"
)

// objectID parses a client-supplied hex id. Malformed ids are a caller
// error, not a lookup miss.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("invalid id")
	}
	return oid, nil
}

// mapWriteErr converts driver write errors into application errors.
func mapWriteErr(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict(conflictMsg)
	}
	return apperr.Internal(err)
}
