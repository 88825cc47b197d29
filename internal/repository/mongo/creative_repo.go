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

const creativeCollectionName = "ad_creatives"

// mongoCreativeRepository implements repository.CreativeRepository
type mongoCreativeRepository struct {
	collection *mongo.Collection
}

// NewMongoCreativeRepository creates a new creative repository backed by MongoDB.
func NewMongoCreativeRepository(db *mongo.Database) repository.CreativeRepository {
	return &mongoCreativeRepository{
		collection: db.Collection(creativeCollectionName),
	}
}

// Create inserts a new creative. New creatives always start PENDING review.
func (r *mongoCreativeRepository) Create(ctx context.Context, creative *domain.AdCreative) (primitive.ObjectID, error) {
	if creative.CampaignID == primitive.NilObjectID || creative.Title == "" {
		return primitive.NilObjectID, errors.New("campaign ID and title are required")
	}

	creative.ID = primitive.NewObjectID()
	creative.ApprovalStatus = domain.CreativePending
	now := time.Now().UTC()
	creative.CreatedAt = now
	creative.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, creative)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetByID retrieves a creative by its ID.
func (r *mongoCreativeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AdCreative, error) {
	var creative domain.AdCreative
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&creative)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &creative, nil
}

// ListByCampaignID retrieves all creatives of a campaign.
func (r *mongoCreativeRepository) ListByCampaignID(ctx context.Context, campaignID primitive.ObjectID) ([]domain.AdCreative, error) {
	var creatives []domain.AdCreative
	cursor, err := r.collection.Find(ctx, bson.M{"campaignId": campaignID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &creatives); err != nil {
		return nil, err
	}
	return creatives, nil
}

// ListApprovedByCampaignIDs retrieves the approved creatives of the given
// campaigns in one query. This is the candidate pool for ad selection.
func (r *mongoCreativeRepository) ListApprovedByCampaignIDs(ctx context.Context, campaignIDs []primitive.ObjectID) ([]domain.AdCreative, error) {
	if len(campaignIDs) == 0 {
		return nil, nil
	}

	var creatives []domain.AdCreative
	filter := bson.M{
		"campaignId":     bson.M{"$in": campaignIDs},
		"approvalStatus": domain.CreativeApproved,
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &creatives); err != nil {
		return nil, err
	}
	return creatives, nil
}

// ListByApprovalStatus retrieves all creatives in the given review state.
func (r *mongoCreativeRepository) ListByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.AdCreative, error) {
	var creatives []domain.AdCreative
	cursor, err := r.collection.Find(ctx, bson.M{"approvalStatus": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &creatives); err != nil {
		return nil, err
	}
	return creatives, nil
}

// SetApprovalStatus rewrites the review state of a creative.
func (r *mongoCreativeRepository) SetApprovalStatus(ctx context.Context, id primitive.ObjectID, status domain.ApprovalStatus) error {
	update := bson.M{"$set": bson.M{"approvalStatus": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementCounters atomically bumps the impression/click counters via $inc.
func (r *mongoCreativeRepository) IncrementCounters(ctx context.Context, id primitive.ObjectID, impressions, clicks int64) error {
	update := bson.M{
		"$inc": bson.M{"impressions": impressions, "clicks": clicks},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCreativeIndexes creates necessary indexes for the creatives collection.
func EnsureCreativeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "approvalStatus", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
