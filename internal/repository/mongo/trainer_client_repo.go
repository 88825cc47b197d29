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

const trainerClientCollectionName = "trainer_clients"

// mongoTrainerClientRepository implements repository.TrainerClientRepository
type mongoTrainerClientRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainerClientRepository creates a new coaching-relationship
// repository backed by MongoDB.
func NewMongoTrainerClientRepository(db *mongo.Database) repository.TrainerClientRepository {
	return &mongoTrainerClientRepository{
		collection: db.Collection(trainerClientCollectionName),
	}
}

// Create inserts a new trainer-client link.
func (r *mongoTrainerClientRepository) Create(ctx context.Context, link *domain.TrainerClientLink) (primitive.ObjectID, error) {
	if link.TrainerID == primitive.NilObjectID || link.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("trainer ID and client ID are required")
	}

	link.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByTrainerAndClient looks up the link between a trainer and a client.
func (r *mongoTrainerClientRepository) GetByTrainerAndClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientLink, error) {
	var link domain.TrainerClientLink
	filter := bson.M{"trainerId": trainerID, "clientId": clientID}
	err := r.collection.FindOne(ctx, filter).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// GetByTrainerID retrieves all links for a trainer.
func (r *mongoTrainerClientRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerClientLink, error) {
	var links []domain.TrainerClientLink
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// TouchLastSession stamps the link's lastSessionDate with the current time.
func (r *mongoTrainerClientRepository) TouchLastSession(ctx context.Context, linkID primitive.ObjectID) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"lastSessionDate": now, "updatedAt": now}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": linkID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainerClientIndexes creates necessary indexes for the
// trainer_clients collection.
func EnsureTrainerClientIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
