package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignStatus is the campaign lifecycle state.
// DRAFT -> ACTIVE <-> PAUSED -> COMPLETED/ARCHIVED. The ACTIVE -> PAUSED
// transition also happens automatically when spend reaches budget or the
// flight window has closed.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignPaused    CampaignStatus = "PAUSED"
	CampaignCompleted CampaignStatus = "COMPLETED"
	CampaignArchived  CampaignStatus = "ARCHIVED"
)

// ApprovalStatus is the review state of a creative.
type ApprovalStatus string

const (
	CreativePending  ApprovalStatus = "PENDING"
	CreativeApproved ApprovalStatus = "APPROVED"
	CreativeRejected ApprovalStatus = "REJECTED"
)

// AdTargeting restricts delivery by user attributes. A nil/empty dimension
// imposes no constraint.
type AdTargeting struct {
	Goals           []string `bson:"goals,omitempty" json:"goals,omitempty"`                     // set-intersection with user goals
	ExperienceLevel string   `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"` // exact match
	LocationCountry string   `bson:"locationCountry,omitempty" json:"locationCountry,omitempty"` // exact match
}

// AdCampaign owns one or more creatives and carries budget, flight window,
// placements and targeting.
type AdCampaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PartnerID   primitive.ObjectID `bson:"partnerId" json:"partnerId"`
	Name        string             `bson:"name" json:"name"`
	Status      CampaignStatus     `bson:"status" json:"status"`
	BudgetCents int64              `bson:"budgetCents" json:"budgetCents"`
	SpendCents  int64              `bson:"spendCents" json:"spendCents"` // Derived, recomputed from counters
	CPMCents    int64              `bson:"cpmCents" json:"cpmCents"`     // Cost per 1000 impressions
	CPCCents    int64              `bson:"cpcCents" json:"cpcCents"`     // Cost per click

	// Flight window; nil means unbounded on that side.
	StartAt *time.Time `bson:"startAt,omitempty" json:"startAt,omitempty"`
	EndAt   *time.Time `bson:"endAt,omitempty" json:"endAt,omitempty"`

	Placements []string    `bson:"placements,omitempty" json:"placements,omitempty"` // UI slots this campaign may serve
	Targeting  AdTargeting `bson:"targeting,omitempty" json:"targeting"`

	Impressions int64 `bson:"impressions" json:"impressions"`
	Clicks      int64 `bson:"clicks" json:"clicks"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FlightContains reports whether the campaign's flight window contains t.
func (c *AdCampaign) FlightContains(t time.Time) bool {
	if c.StartAt != nil && t.Before(*c.StartAt) {
		return false
	}
	if c.EndAt != nil && t.After(*c.EndAt) {
		return false
	}
	return true
}

// ServesPlacement reports whether the campaign lists the given placement.
func (c *AdCampaign) ServesPlacement(placement string) bool {
	for _, p := range c.Placements {
		if p == placement {
			return true
		}
	}
	return false
}

// AdCreative is one piece of ad content belonging to a campaign.
type AdCreative struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body,omitempty" json:"body,omitempty"`
	MediaType  string             `bson:"mediaType,omitempty" json:"mediaType,omitempty"` // "image", "video", "native"

	// AssetKey is the S3 object key of the creative asset; served via
	// presigned URLs.
	AssetKey string `bson:"assetKey,omitempty" json:"-"`

	ClickURL       string         `bson:"clickUrl" json:"clickUrl"`
	ApprovalStatus ApprovalStatus `bson:"approvalStatus" json:"approvalStatus"`

	Impressions int64 `bson:"impressions" json:"impressions"`
	Clicks      int64 `bson:"clicks" json:"clicks"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
