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

const campaignCollectionName = "ad_campaigns"

// mongoCampaignRepository implements repository.CampaignRepository
type mongoCampaignRepository struct {
	collection *mongo.Collection
}

// NewMongoCampaignRepository creates a new campaign repository backed by MongoDB.
func NewMongoCampaignRepository(db *mongo.Database) repository.CampaignRepository {
	return &mongoCampaignRepository{
		collection: db.Collection(campaignCollectionName),
	}
}

// Create inserts a new campaign in DRAFT state unless a status was set.
func (r *mongoCampaignRepository) Create(ctx context.Context, campaign *domain.AdCampaign) (primitive.ObjectID, error) {
	if campaign.PartnerID == primitive.NilObjectID || campaign.Name == "" {
		return primitive.NilObjectID, errors.New("partner ID and campaign name are required")
	}
	if campaign.Status == "" {
		campaign.Status = domain.CampaignDraft
	}

	campaign.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, campaign)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetByID retrieves a campaign by its ID.
func (r *mongoCampaignRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AdCampaign, error) {
	var campaign domain.AdCampaign
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// ListByStatus retrieves all campaigns in the given state.
func (r *mongoCampaignRepository) ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.AdCampaign, error) {
	var campaigns []domain.AdCampaign
	cursor, err := r.collection.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListByPartnerID retrieves a partner's campaigns, newest first.
func (r *mongoCampaignRepository) ListByPartnerID(ctx context.Context, partnerID primitive.ObjectID) ([]domain.AdCampaign, error) {
	var campaigns []domain.AdCampaign
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"partnerId": partnerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// SetStatus rewrites the campaign status.
func (r *mongoCampaignRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.CampaignStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
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
func (r *mongoCampaignRepository) IncrementCounters(ctx context.Context, id primitive.ObjectID, impressions, clicks int64) error {
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

// SetSpend rewrites the derived spend value. Spend is always recomputed from
// scratch off the current counters, never accumulated incrementally.
func (r *mongoCampaignRepository) SetSpend(ctx context.Context, id primitive.ObjectID, spendCents int64) error {
	update := bson.M{"$set": bson.M{"spendCents": spendCents, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCampaignIndexes creates necessary indexes for the campaigns collection.
func EnsureCampaignIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "partnerId", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
