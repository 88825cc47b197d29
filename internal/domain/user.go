package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAthlete Role = "athlete"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// SocialConnection holds the stored OAuth token state for one platform.
// Kept as an opaque blob on the user record keyed by platform name,
// not a normalized collection.
type SocialConnection struct {
	Platform     string    `bson:"platform" json:"platform"`
	AccessToken  string    `bson:"accessToken" json:"-"`
	RefreshToken string    `bson:"refreshToken,omitempty" json:"-"`
	ExpiresAt    time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	ConnectedAt  time.Time `bson:"connectedAt" json:"connectedAt"`
}

// User represents a user in the system (Athlete, Trainer, or Admin).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Profile attributes consulted by ad targeting ---
	Goals           []string `bson:"goals,omitempty" json:"goals,omitempty"`                     // e.g., "strength", "fat_loss"
	ExperienceLevel string   `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"` // e.g., "beginner", "advanced"
	Country         string   `bson:"country,omitempty" json:"country,omitempty"`                 // ISO country code

	// --- Social & push state ---
	SocialConnections map[string]SocialConnection `bson:"socialConnections,omitempty" json:"-"`
	DeviceTokens      []string                    `bson:"deviceTokens,omitempty" json:"-"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TrainerClientLink records the coaching relationship between a trainer and
// an athlete. Session generation requires an active link.
type TrainerClientLink struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID       primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID        primitive.ObjectID `bson:"clientId" json:"clientId"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	LastSessionDate *time.Time         `bson:"lastSessionDate,omitempty" json:"lastSessionDate,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
