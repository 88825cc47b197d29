package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single canonical exercise in the catalog.
// Template documents reference exercises by free-text name; the resolver
// maps those names onto these records.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"` // e.g., "Compound", "Isolation"
	MuscleGroups []string           `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"`
	Equipment    []string           `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Difficulty   string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g., "Novice", "Medium", "Advanced"
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`

	// Alternate names the resolver accepts verbatim, e.g. "BB Row" for
	// "Barbell Row".
	Aliases []string `bson:"aliases,omitempty" json:"aliases,omitempty"`

	// MediaObjectKey is the S3 key of an optional demo video or image.
	// Presigned URLs are generated on demand, the key itself stays internal.
	MediaObjectKey string `bson:"mediaObjectKey,omitempty" json:"-"`

	// OwnerID is set when a trainer created the exercise; system catalog
	// entries have no owner.
	OwnerID *primitive.ObjectID `bson:"ownerId,omitempty" json:"ownerId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
