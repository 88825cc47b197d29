package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feedback is a user-submitted product feedback entry. The message passes
// through content moderation before being stored.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"` // 1..5, 0 = not given
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DashboardStats is the admin overview snapshot.
type DashboardStats struct {
	Users             int64 `json:"users"`
	ActivePrograms    int64 `json:"activePrograms"`
	ActiveCampaigns   int64 `json:"activeCampaigns"`
	CompletedSessions int64 `json:"completedSessions"`
	PendingLeads      int64 `json:"pendingLeads"`
}
