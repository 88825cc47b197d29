package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSession is the athlete-facing realization of a prescribed workout.
// Once created it is a snapshot: later edits to the source template do not
// touch the session.
type WorkoutSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AthleteID   primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Denormalized for trainer queries
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`

	// ProgramID/WorkoutID are set when the session was generated from a
	// template; nil for custom sessions.
	ProgramID *primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"`
	WorkoutID *primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty"`

	ScheduledFor *time.Time `bson:"scheduledFor,omitempty" json:"scheduledFor,omitempty"`
	CompletedAt  *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// SessionLogEntry records one performed set. Entries are created when the
// athlete executes the session, never pre-populated at scheduling time.
type SessionLogEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID  primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	AthleteID  primitive.ObjectID `bson:"athleteId" json:"athleteId"` // Denormalized
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetNumber  int                `bson:"setNumber" json:"setNumber"`
	Reps       int                `bson:"reps" json:"reps"`
	WeightKg   float64            `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	RPE        float64            `bson:"rpe,omitempty" json:"rpe,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	LoggedAt   time.Time          `bson:"loggedAt" json:"loggedAt"`
}
