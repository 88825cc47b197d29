package mongo

import (
	"context"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoStatsRepository implements repository.StatsRepository
type mongoStatsRepository struct {
	db *mongo.Database
}

// NewMongoStatsRepository creates a new stats repository backed by MongoDB.
func NewMongoStatsRepository(db *mongo.Database) repository.StatsRepository {
	return &mongoStatsRepository{db: db}
}

// Snapshot runs one count per dashboard figure. Counts are taken
// sequentially; the snapshot is not a consistent point-in-time view.
func (r *mongoStatsRepository) Snapshot(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	counts := []struct {
		collection string
		filter     bson.M
		dest       *int64
	}{
		{userCollectionName, bson.M{}, &stats.Users},
		{templateCollectionName, bson.M{"isActive": true}, &stats.ActivePrograms},
		{campaignCollectionName, bson.M{"status": domain.CampaignActive}, &stats.ActiveCampaigns},
		{sessionCollectionName, bson.M{"completedAt": bson.M{"$ne": nil}}, &stats.CompletedSessions},
		{leadCollectionName, bson.M{"status": domain.LeadNew}, &stats.PendingLeads},
	}

	for _, c := range counts {
		n, err := r.db.Collection(c.collection).CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return stats, nil
}
