package repository

import (
	"context"

	"massimino/fitness-platform/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetSocialConnection(ctx context.Context, userID primitive.ObjectID, conn domain.SocialConnection) error
	RemoveSocialConnection(ctx context.Context, userID primitive.ObjectID, platform string) error
	AddDeviceToken(ctx context.Context, userID primitive.ObjectID, token string) error
}

// TrainerClientRepository manages coaching relationships.
type TrainerClientRepository interface {
	Create(ctx context.Context, link *domain.TrainerClientLink) (primitive.ObjectID, error)
	GetByTrainerAndClient(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.TrainerClientLink, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.TrainerClientLink, error)
	TouchLastSession(ctx context.Context, linkID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with the exercise
// catalog. GetByName is exact and case-sensitive; FindFirstFuzzy backs the
// resolver's fallback step.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	// FindFirstFuzzy returns the first exercise (name order) whose name
	// contains token case-insensitively, or whose alias list contains
	// fullName verbatim.
	FindFirstFuzzy(ctx context.Context, token, fullName string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// ProgramRepository covers the template tree: templates, phases,
// microcycles, workouts and workout-exercises.
type ProgramRepository interface {
	// Templates
	InsertTemplate(ctx context.Context, tmpl *domain.ProgramTemplate) (primitive.ObjectID, error)
	// UpsertTemplate creates the template under its fixed id, or updates
	// description/templateData/updatedAt when it already exists.
	UpsertTemplate(ctx context.Context, tmpl *domain.ProgramTemplate) error
	GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramTemplate, error)
	ListTemplates(ctx context.Context, visibility domain.Visibility) ([]domain.ProgramTemplate, error)
	DeactivateTemplate(ctx context.Context, id primitive.ObjectID) error

	// Phases (reseed semantics: delete-then-insert)
	DeletePhasesByProgramID(ctx context.Context, programID primitive.ObjectID) error
	InsertPhases(ctx context.Context, phases []domain.ProgramPhase) error
	GetPhasesByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramPhase, error)

	// Microcycles / workouts / workout-exercises
	// DeleteTreeByProgramID removes every microcycle, workout and
	// workout-exercise of a program via their denormalized programId.
	// Reseeds pair it with DeletePhasesByProgramID so no rows are left
	// dangling off regenerated phase ids.
	DeleteTreeByProgramID(ctx context.Context, programID primitive.ObjectID) error
	InsertMicrocycle(ctx context.Context, mc *domain.ProgramMicrocycle) (primitive.ObjectID, error)
	GetMicrocyclesByPhaseID(ctx context.Context, phaseID primitive.ObjectID) ([]domain.ProgramMicrocycle, error)
	InsertWorkout(ctx context.Context, w *domain.ProgramWorkout) (primitive.ObjectID, error)
	GetWorkoutsByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.ProgramWorkout, error)
	InsertWorkoutExercise(ctx context.Context, we *domain.ProgramWorkoutExercise) (primitive.ObjectID, error)
	GetExercisesByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.ProgramWorkoutExercise, error)
}

// SubscriptionRepository manages program subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.ProgramSubscription) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramSubscription, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgramSubscription, error)
	Update(ctx context.Context, sub *domain.ProgramSubscription) error
}

// SessionRepository manages workout sessions and their performed-set log.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error)
	GetSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error)
	GetSessionsByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.WorkoutSession, error)
	CompleteSession(ctx context.Context, id primitive.ObjectID) error
	CreateLogEntry(ctx context.Context, entry *domain.SessionLogEntry) (primitive.ObjectID, error)
	GetLogEntriesBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionLogEntry, error)
}

// CampaignRepository manages ad campaigns. IncrementCounters must be atomic
// at the database level; the derived spend recompute that follows it is a
// separate read-then-write and is deliberately not guarded.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.AdCampaign) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AdCampaign, error)
	ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.AdCampaign, error)
	ListByPartnerID(ctx context.Context, partnerID primitive.ObjectID) ([]domain.AdCampaign, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status domain.CampaignStatus) error
	IncrementCounters(ctx context.Context, id primitive.ObjectID, impressions, clicks int64) error
	SetSpend(ctx context.Context, id primitive.ObjectID, spendCents int64) error
}

// CreativeRepository manages ad creatives.
type CreativeRepository interface {
	Create(ctx context.Context, creative *domain.AdCreative) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.AdCreative, error)
	ListByCampaignID(ctx context.Context, campaignID primitive.ObjectID) ([]domain.AdCreative, error)
	ListApprovedByCampaignIDs(ctx context.Context, campaignIDs []primitive.ObjectID) ([]domain.AdCreative, error)
	ListByApprovalStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.AdCreative, error)
	SetApprovalStatus(ctx context.Context, id primitive.ObjectID, status domain.ApprovalStatus) error
	IncrementCounters(ctx context.Context, id primitive.ObjectID, impressions, clicks int64) error
}

// PartnerRepository manages leads, partners and gym integrations.
type PartnerRepository interface {
	CreateLead(ctx context.Context, lead *domain.PartnerLead) (primitive.ObjectID, error)
	GetLeadByID(ctx context.Context, id primitive.ObjectID) (*domain.PartnerLead, error)
	ListLeadsByStatus(ctx context.Context, status domain.LeadStatus) ([]domain.PartnerLead, error)
	SetLeadStatus(ctx context.Context, id primitive.ObjectID, status domain.LeadStatus) error
	CreatePartner(ctx context.Context, partner *domain.Partner) (primitive.ObjectID, error)
	GetPartnerByID(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error)
	GetPartnerByAPIKeyHash(ctx context.Context, keyHash string) (*domain.Partner, error)
	SetAPIKeyHash(ctx context.Context, partnerID primitive.ObjectID, keyHash string) error
	CreateGymIntegration(ctx context.Context, gym *domain.GymIntegration) (primitive.ObjectID, error)
	ListGymIntegrationsByPartner(ctx context.Context, partnerID primitive.ObjectID) ([]domain.GymIntegration, error)
}

// FeedbackRepository stores product feedback entries.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (primitive.ObjectID, error)
	List(ctx context.Context) ([]domain.Feedback, error)
}

// StatsRepository aggregates the admin dashboard snapshot.
type StatsRepository interface {
	Snapshot(ctx context.Context) (*domain.DashboardStats, error)
}

// PushDeliveryRepository records push notification attempts.
type PushDeliveryRepository interface {
	Create(ctx context.Context, delivery *domain.PushDelivery) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.PushDelivery, error)
}
