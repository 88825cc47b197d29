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
)

const subscriptionCollectionName = "program_subscriptions"

// mongoSubscriptionRepository implements repository.SubscriptionRepository
type mongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new subscription repository backed by MongoDB.
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &mongoSubscriptionRepository{
		collection: db.Collection(subscriptionCollectionName),
	}
}

// Create inserts a new subscription.
func (r *mongoSubscriptionRepository) Create(ctx context.Context, sub *domain.ProgramSubscription) (primitive.ObjectID, error) {
	if sub.UserID == primitive.NilObjectID || sub.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("user ID and program ID are required")
	}

	sub.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetByID retrieves a subscription by its ID.
func (r *mongoSubscriptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramSubscription, error) {
	var sub domain.ProgramSubscription
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetActiveByUser retrieves a user's active subscriptions.
func (r *mongoSubscriptionRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgramSubscription, error) {
	var subs []domain.ProgramSubscription
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Update rewrites the progress fields of a subscription.
func (r *mongoSubscriptionRepository) Update(ctx context.Context, sub *domain.ProgramSubscription) error {
	if sub.ID == primitive.NilObjectID {
		return errors.New("subscription ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"currentWeek": sub.CurrentWeek,
			"currentDay":  sub.CurrentDay,
			"progress":    sub.Progress,
			"isActive":    sub.IsActive,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": sub.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
