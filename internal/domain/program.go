package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility of a program template.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ProgramTemplate is a reusable definition of a multi-week training plan.
// Templates are never physically deleted, only deactivated.
type ProgramTemplate struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks       int                `bson:"durationWeeks" json:"durationWeeks"`
	Difficulty          string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Category            string             `bson:"category,omitempty" json:"category,omitempty"` // e.g., "strength", "hypertrophy"
	Visibility          Visibility         `bson:"visibility" json:"visibility"`
	PriceCents          int                `bson:"priceCents" json:"priceCents"`
	Rating              float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	Tags                []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	ProgressionStrategy string             `bson:"progressionStrategy,omitempty" json:"progressionStrategy,omitempty"`

	// TemplateData is the full authored program document, kept verbatim.
	// The relational phase breakdown below it is derived from this blob by
	// the catalog service.
	TemplateData []byte `bson:"templateData,omitempty" json:"-"`

	// OwnerID is the creating trainer; system-owned templates have no owner.
	OwnerID *primitive.ObjectID `bson:"ownerId,omitempty" json:"ownerId,omitempty"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProgramPhase is a block of weeks within a template. Phases of one program
// are addressed as (programId, phaseNumber) from outside the catalog; raw
// phase ids are regenerated on every reseed. Week ranges of sibling phases
// are expected not to overlap, but the data layer does not enforce it.
type ProgramPhase struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID       primitive.ObjectID `bson:"programId" json:"programId"`
	PhaseNumber     int                `bson:"phaseNumber" json:"phaseNumber"`
	Name            string             `bson:"name" json:"name"`
	StartWeek       int                `bson:"startWeek" json:"startWeek"`
	EndWeek         int                `bson:"endWeek" json:"endWeek"`
	TargetIntensity string             `bson:"targetIntensity,omitempty" json:"targetIntensity,omitempty"` // e.g., "70-80% 1RM"
	TargetVolume    string             `bson:"targetVolume,omitempty" json:"targetVolume,omitempty"`       // e.g., "moderate", "high"
	RepRange        string             `bson:"repRange,omitempty" json:"repRange,omitempty"`
	Sets            int                `bson:"sets,omitempty" json:"sets,omitempty"`
	RestRange       string             `bson:"restRange,omitempty" json:"restRange,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgramMicrocycle is one training week within a phase. Its modifiers are
// applied multiplicatively to the phase baseline.
type ProgramMicrocycle struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PhaseID           primitive.ObjectID `bson:"phaseId" json:"phaseId"`
	ProgramID         primitive.ObjectID `bson:"programId" json:"programId"` // Denormalized for clone traversal
	WeekNumber        int                `bson:"weekNumber" json:"weekNumber"`
	VolumeModifier    float64            `bson:"volumeModifier" json:"volumeModifier"`
	IntensityModifier float64            `bson:"intensityModifier" json:"intensityModifier"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgramWorkout is one training day within a microcycle.
type ProgramWorkout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MicrocycleID primitive.ObjectID `bson:"microcycleId" json:"microcycleId"`
	ProgramID    primitive.ObjectID `bson:"programId" json:"programId"` // Denormalized
	DayNumber    int                `bson:"dayNumber" json:"dayNumber"`
	Label        string             `bson:"label,omitempty" json:"label,omitempty"` // e.g., "Upper A"
	WorkoutType  string             `bson:"workoutType,omitempty" json:"workoutType,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgramWorkoutExercise is the leaf unit of prescription: one movement
// within a workout day.
type ProgramWorkoutExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID   primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	ProgramID   primitive.ObjectID `bson:"programId" json:"programId"` // Denormalized
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Order       int                `bson:"order" json:"order"`
	Sets        int                `bson:"sets" json:"sets"`
	RepRange    string             `bson:"repRange,omitempty" json:"repRange,omitempty"` // "8-10", "AMRAP", ...
	RestSeconds int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Tempo       string             `bson:"tempo,omitempty" json:"tempo,omitempty"`
	TargetRPE   float64            `bson:"targetRpe,omitempty" json:"targetRpe,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgramSubscription is an athlete's enrollment in and progress through a
// program.
type ProgramSubscription struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ProgramID   primitive.ObjectID `bson:"programId" json:"programId"`
	CurrentWeek int                `bson:"currentWeek" json:"currentWeek"`
	CurrentDay  int                `bson:"currentDay" json:"currentDay"`
	Progress    float64            `bson:"progress" json:"progress"` // 0..1 over the program duration
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
