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

const (
	leadCollectionName    = "partner_leads"
	partnerCollectionName = "partners"
	gymCollectionName     = "gym_integrations"
)

// mongoPartnerRepository implements repository.PartnerRepository
type mongoPartnerRepository struct {
	leads    *mongo.Collection
	partners *mongo.Collection
	gyms     *mongo.Collection
}

// NewMongoPartnerRepository creates a new partner repository backed by MongoDB.
func NewMongoPartnerRepository(db *mongo.Database) repository.PartnerRepository {
	return &mongoPartnerRepository{
		leads:    db.Collection(leadCollectionName),
		partners: db.Collection(partnerCollectionName),
		gyms:     db.Collection(gymCollectionName),
	}
}

// CreateLead inserts a new lead in NEW state.
func (r *mongoPartnerRepository) CreateLead(ctx context.Context, lead *domain.PartnerLead) (primitive.ObjectID, error) {
	if lead.CompanyName == "" || lead.ContactEmail == "" {
		return primitive.NilObjectID, errors.New("company name and contact email are required")
	}

	lead.ID = primitive.NewObjectID()
	lead.Status = domain.LeadNew
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	result, err := r.leads.InsertOne(ctx, lead)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetLeadByID retrieves a lead by its ID.
func (r *mongoPartnerRepository) GetLeadByID(ctx context.Context, id primitive.ObjectID) (*domain.PartnerLead, error) {
	var lead domain.PartnerLead
	err := r.leads.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// ListLeadsByStatus retrieves leads in the given state, oldest first.
func (r *mongoPartnerRepository) ListLeadsByStatus(ctx context.Context, status domain.LeadStatus) ([]domain.PartnerLead, error) {
	var leads []domain.PartnerLead
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.leads.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// SetLeadStatus rewrites the review state of a lead.
func (r *mongoPartnerRepository) SetLeadStatus(ctx context.Context, id primitive.ObjectID, status domain.LeadStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.leads.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreatePartner inserts a new partner.
func (r *mongoPartnerRepository) CreatePartner(ctx context.Context, partner *domain.Partner) (primitive.ObjectID, error) {
	if partner.CompanyName == "" {
		return primitive.NilObjectID, errors.New("company name is required")
	}

	partner.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	partner.CreatedAt = now
	partner.UpdatedAt = now

	result, err := r.partners.InsertOne(ctx, partner)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetPartnerByID retrieves a partner by its ID.
func (r *mongoPartnerRepository) GetPartnerByID(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.partners.FindOne(ctx, bson.M{"_id": id}).Decode(&partner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// GetPartnerByAPIKeyHash looks a partner up by the hash of a presented API key.
func (r *mongoPartnerRepository) GetPartnerByAPIKeyHash(ctx context.Context, keyHash string) (*domain.Partner, error) {
	var partner domain.Partner
	err := r.partners.FindOne(ctx, bson.M{"apiKeyHash": keyHash}).Decode(&partner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// SetAPIKeyHash stores the hash of a freshly issued API key.
func (r *mongoPartnerRepository) SetAPIKeyHash(ctx context.Context, partnerID primitive.ObjectID, keyHash string) error {
	update := bson.M{"$set": bson.M{"apiKeyHash": keyHash, "updatedAt": time.Now().UTC()}}
	result, err := r.partners.UpdateByID(ctx, partnerID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateGymIntegration inserts a new gym integration for a partner.
func (r *mongoPartnerRepository) CreateGymIntegration(ctx context.Context, gym *domain.GymIntegration) (primitive.ObjectID, error) {
	if gym.PartnerID == primitive.NilObjectID || gym.GymName == "" {
		return primitive.NilObjectID, errors.New("partner ID and gym name are required")
	}

	gym.ID = primitive.NewObjectID()
	gym.CreatedAt = time.Now().UTC()

	result, err := r.gyms.InsertOne(ctx, gym)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// ListGymIntegrationsByPartner retrieves a partner's gym integrations.
func (r *mongoPartnerRepository) ListGymIntegrationsByPartner(ctx context.Context, partnerID primitive.ObjectID) ([]domain.GymIntegration, error) {
	var gyms []domain.GymIntegration
	cursor, err := r.gyms.Find(ctx, bson.M{"partnerId": partnerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &gyms); err != nil {
		return nil, err
	}
	return gyms, nil
}

// EnsurePartnerIndexes creates necessary indexes for partners and leads.
func EnsurePartnerIndexes(ctx context.Context, db *mongo.Database) {
	_, _ = db.Collection(partnerCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "apiKeyHash", Value: 1}},
		Options: options.Index().SetSparse(true),
	})
	_, _ = db.Collection(leadCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}},
	})
}
