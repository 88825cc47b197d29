package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID converts a hex id string into an ObjectID.
func parseObjectID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid id format")
	}
	return id, nil
}
