package mongo

import (
	"context"
	"errors"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pushDeliveryCollectionName = "push_deliveries"

// mongoPushDeliveryRepository implements repository.PushDeliveryRepository
type mongoPushDeliveryRepository struct {
	collection *mongo.Collection
}

// NewMongoPushDeliveryRepository creates a new push delivery repository backed by MongoDB.
func NewMongoPushDeliveryRepository(db *mongo.Database) repository.PushDeliveryRepository {
	return &mongoPushDeliveryRepository{
		collection: db.Collection(pushDeliveryCollectionName),
	}
}

// Create records one delivery attempt.
func (r *mongoPushDeliveryRepository) Create(ctx context.Context, delivery *domain.PushDelivery) (primitive.ObjectID, error) {
	if delivery.DeviceToken == "" {
		return primitive.NilObjectID, errors.New("device token is required")
	}

	delivery.ID = primitive.NewObjectID()
	if delivery.AttemptedAt.IsZero() {
		delivery.AttemptedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, delivery)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetByUserID retrieves a user's delivery attempts, newest first.
func (r *mongoPushDeliveryRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.PushDelivery, error) {
	var deliveries []domain.PushDelivery
	findOptions := options.Find().SetSort(bson.D{{Key: "attemptedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &deliveries); err != nil {
		return nil, err
	}
	return deliveries, nil
}
