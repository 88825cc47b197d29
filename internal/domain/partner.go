package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadStatus is the review state of a partner lead.
type LeadStatus string

const (
	LeadNew      LeadStatus = "NEW"
	LeadApproved LeadStatus = "APPROVED"
	LeadRejected LeadStatus = "REJECTED"
)

// PartnerLead is an inbound partnership inquiry. An approved lead becomes a
// Partner.
type PartnerLead struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	ContactName  string             `bson:"contactName" json:"contactName"`
	ContactEmail string             `bson:"contactEmail" json:"contactEmail"`
	Message      string             `bson:"message,omitempty" json:"message,omitempty"`
	Status       LeadStatus         `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Partner is an approved advertising/integration partner.
type Partner struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeadID       primitive.ObjectID `bson:"leadId" json:"leadId"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	ContactEmail string             `bson:"contactEmail" json:"contactEmail"`

	// APIKeyHash is the SHA-256 hex digest of the partner's API key.
	// The plaintext key is returned exactly once at issuance.
	APIKeyHash string `bson:"apiKeyHash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GymIntegration is a partner-operated gym system connected via API key.
type GymIntegration struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PartnerID primitive.ObjectID `bson:"partnerId" json:"partnerId"`
	GymName   string             `bson:"gymName" json:"gymName"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
