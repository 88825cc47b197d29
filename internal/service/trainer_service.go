package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound       = errors.New("client user not found")
	ErrClientNotRole        = errors.New("user found but is not an athlete")
	ErrClientAlreadyLinked  = errors.New("athlete is already linked to this trainer")
	ErrNoActiveRelationship = errors.New("no active trainer-client relationship")
	ErrSessionSpecEmpty     = errors.New("session spec needs a program id or custom exercises")
	ErrProgramHasNoWorkouts = errors.New("program has no phases, weeks or workouts to schedule from")
	ErrSourcePhaseMissing   = errors.New("source program phase missing during clone")
)

// SessionSpec describes what to generate a session from: either a program
// (first workout of the first week of the first phase) or an explicit
// exercise list.
type SessionSpec struct {
	ProgramID       *primitive.ObjectID
	CustomExercises []string
	Title           string
	Description     string
}

// CloneCustomizations are the two transformations applied while deep-copying
// a program for an athlete.
type CloneCustomizations struct {
	// ExerciseSwaps replaces exercise ids during the copy.
	ExerciseSwaps map[primitive.ObjectID]primitive.ObjectID
	// VolumeAdjustments multiplies the prescribed sets of an exercise by the
	// given factor, rounded half-up to the nearest integer.
	VolumeAdjustments map[primitive.ObjectID]float64
}

// --- Service Interface ---
type TrainerService interface {
	// Client management
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)

	// Session generation
	CreateSessionForAthlete(ctx context.Context, trainerID, athleteID primitive.ObjectID, spec SessionSpec) (*domain.WorkoutSession, error)

	// Program cloning
	CloneProgramForAthlete(ctx context.Context, trainerID, athleteID, programID primitive.ObjectID, custom CloneCustomizations) (*domain.ProgramTemplate, error)
}

// --- Service Implementation ---

type trainerService struct {
	userRepo    repository.UserRepository
	linkRepo    repository.TrainerClientRepository
	programRepo repository.ProgramRepository
	sessionRepo repository.SessionRepository
	subRepo     repository.SubscriptionRepository
	notifier    Notifier
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	linkRepo repository.TrainerClientRepository,
	programRepo repository.ProgramRepository,
	sessionRepo repository.SessionRepository,
	subRepo repository.SubscriptionRepository,
	notifier Notifier,
) TrainerService {
	return &trainerService{
		userRepo:    userRepo,
		linkRepo:    linkRepo,
		programRepo: programRepo,
		sessionRepo: sessionRepo,
		subRepo:     subRepo,
		notifier:    notifier,
	}
}

// === Client Management ===

// AddClientByEmail finds an athlete by email and links them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleAthlete {
		return nil, ErrClientNotRole
	}

	// An existing link, active or not, blocks a duplicate.
	_, err = s.linkRepo.GetByTrainerAndClient(ctx, trainerID, client.ID)
	if err == nil {
		return nil, ErrClientAlreadyLinked
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	link := &domain.TrainerClientLink{
		TrainerID: trainerID,
		ClientID:  client.ID,
		IsActive:  true,
	}
	if _, err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	client.PasswordHash = ""
	return client, nil
}

// GetManagedClients retrieves the athletes linked to the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	links, err := s.linkRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	clients := make([]domain.User, 0, len(links))
	for _, link := range links {
		if !link.IsActive {
			continue
		}
		client, err := s.userRepo.GetByID(ctx, link.ClientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		client.PasswordHash = ""
		clients = append(clients, *client)
	}
	return clients, nil
}

// === Session Generation ===

// CreateSessionForAthlete produces one executable workout session for the
// athlete. The session is a scheduling placeholder: log entries are created
// later, when the athlete performs it.
func (s *trainerService) CreateSessionForAthlete(ctx context.Context, trainerID, athleteID primitive.ObjectID, spec SessionSpec) (*domain.WorkoutSession, error) {
	link, err := s.requireActiveLink(ctx, trainerID, athleteID)
	if err != nil {
		return nil, err
	}

	var session *domain.WorkoutSession
	switch {
	case spec.ProgramID != nil:
		session, err = s.sessionFromProgram(ctx, trainerID, athleteID, *spec.ProgramID)
	case len(spec.CustomExercises) > 0:
		session = s.sessionFromCustomExercises(trainerID, athleteID, spec)
	default:
		return nil, ErrSessionSpecEmpty
	}
	if err != nil {
		return nil, err
	}

	sessionID, err := s.sessionRepo.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID

	// Stamp the relationship with the latest session date.
	if err := s.linkRepo.TouchLastSession(ctx, link.ID); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifySessionScheduled(athleteID, session.Title)
	}
	return session, nil
}

// sessionFromProgram builds a session from the first workout of the first
// microcycle of the first phase of the program.
func (s *trainerService) sessionFromProgram(ctx context.Context, trainerID, athleteID, programID primitive.ObjectID) (*domain.WorkoutSession, error) {
	program, err := s.programRepo.GetTemplateByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	phases, err := s.programRepo.GetPhasesByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, ErrProgramHasNoWorkouts
	}

	cycles, err := s.programRepo.GetMicrocyclesByPhaseID(ctx, phases[0].ID)
	if err != nil {
		return nil, err
	}
	if len(cycles) == 0 {
		return nil, ErrProgramHasNoWorkouts
	}

	workouts, err := s.programRepo.GetWorkoutsByMicrocycleID(ctx, cycles[0].ID)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, ErrProgramHasNoWorkouts
	}

	first := workouts[0]
	label := first.Label
	if label == "" {
		label = fmt.Sprintf("Day %d", first.DayNumber)
	}

	return &domain.WorkoutSession{
		AthleteID: athleteID,
		TrainerID: trainerID,
		Title:     fmt.Sprintf("%s - %s", program.Name, label),
		ProgramID: &programID,
		WorkoutID: &first.ID,
	}, nil
}

// sessionFromCustomExercises builds a free-form session. The exercise list
// is kept only in the notes text, not as structured rows.
func (s *trainerService) sessionFromCustomExercises(trainerID, athleteID primitive.ObjectID, spec SessionSpec) *domain.WorkoutSession {
	title := spec.Title
	if title == "" {
		title = "Custom session"
	}
	return &domain.WorkoutSession{
		AthleteID:   athleteID,
		TrainerID:   trainerID,
		Title:       title,
		Description: spec.Description,
		Notes:       strings.Join(spec.CustomExercises, "\n"),
	}
}

// === Program Cloning ===

// CloneProgramForAthlete deep-copies an entire program into a new private
// template owned by the trainer, applying the given customizations during
// the copy, then subscribes the athlete to the clone at week 1 / day 1.
// The clone is fully independent of the source. A missing source node aborts
// the clone with an explicit error; rows inserted before the failure are not
// rolled back.
func (s *trainerService) CloneProgramForAthlete(ctx context.Context, trainerID, athleteID, programID primitive.ObjectID, custom CloneCustomizations) (*domain.ProgramTemplate, error) {
	if _, err := s.requireActiveLink(ctx, trainerID, athleteID); err != nil {
		return nil, err
	}

	source, err := s.programRepo.GetTemplateByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	clone := &domain.ProgramTemplate{
		Name:                source.Name,
		Description:         source.Description,
		DurationWeeks:       source.DurationWeeks,
		Difficulty:          source.Difficulty,
		Category:            source.Category,
		Visibility:          domain.VisibilityPrivate,
		Tags:                source.Tags,
		ProgressionStrategy: source.ProgressionStrategy,
		TemplateData:        source.TemplateData,
		OwnerID:             &trainerID,
		IsActive:            true,
	}
	cloneID, err := s.programRepo.InsertTemplate(ctx, clone)
	if err != nil {
		return nil, err
	}
	clone.ID = cloneID

	sourcePhases, err := s.programRepo.GetPhasesByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}

	newPhases := make([]domain.ProgramPhase, len(sourcePhases))
	for i, p := range sourcePhases {
		p.ID = primitive.NilObjectID
		p.ProgramID = cloneID
		newPhases[i] = p
	}
	if err := s.programRepo.InsertPhases(ctx, newPhases); err != nil {
		return nil, err
	}

	// InsertPhases assigns ids in place, preserving order, so sourcePhases
	// and newPhases correspond index-wise.
	for i, src := range sourcePhases {
		if err := s.clonePhaseTree(ctx, cloneID, src.ID, newPhases[i].ID, custom); err != nil {
			return nil, err
		}
	}

	sub := &domain.ProgramSubscription{
		UserID:      athleteID,
		ProgramID:   cloneID,
		CurrentWeek: 1,
		CurrentDay:  1,
		IsActive:    true,
	}
	if _, err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyProgramAssigned(athleteID, clone.Name)
	}
	return clone, nil
}

// clonePhaseTree copies microcycles, workouts and workout-exercises from one
// source phase into its clone.
func (s *trainerService) clonePhaseTree(ctx context.Context, cloneProgramID, sourcePhaseID, newPhaseID primitive.ObjectID, custom CloneCustomizations) error {
	cycles, err := s.programRepo.GetMicrocyclesByPhaseID(ctx, sourcePhaseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSourcePhaseMissing
		}
		return err
	}

	for _, cycle := range cycles {
		newCycle := cycle
		newCycle.ID = primitive.NilObjectID
		newCycle.PhaseID = newPhaseID
		newCycle.ProgramID = cloneProgramID
		newCycleID, err := s.programRepo.InsertMicrocycle(ctx, &newCycle)
		if err != nil {
			return err
		}

		workouts, err := s.programRepo.GetWorkoutsByMicrocycleID(ctx, cycle.ID)
		if err != nil {
			return err
		}
		for _, workout := range workouts {
			newWorkout := workout
			newWorkout.ID = primitive.NilObjectID
			newWorkout.MicrocycleID = newCycleID
			newWorkout.ProgramID = cloneProgramID
			newWorkoutID, err := s.programRepo.InsertWorkout(ctx, &newWorkout)
			if err != nil {
				return err
			}

			exercises, err := s.programRepo.GetExercisesByWorkoutID(ctx, workout.ID)
			if err != nil {
				return err
			}
			for _, we := range exercises {
				newWE := we
				newWE.ID = primitive.NilObjectID
				newWE.WorkoutID = newWorkoutID
				newWE.ProgramID = cloneProgramID

				if swap, ok := custom.ExerciseSwaps[we.ExerciseID]; ok {
					newWE.ExerciseID = swap
				}
				if factor, ok := custom.VolumeAdjustments[we.ExerciseID]; ok {
					newWE.Sets = roundHalfUp(float64(we.Sets) * factor)
				}

				if _, err := s.programRepo.InsertWorkoutExercise(ctx, &newWE); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// requireActiveLink verifies the trainer-client relationship.
func (s *trainerService) requireActiveLink(ctx context.Context, trainerID, athleteID primitive.ObjectID) (*domain.TrainerClientLink, error) {
	link, err := s.linkRepo.GetByTrainerAndClient(ctx, trainerID, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveRelationship
		}
		return nil, err
	}
	if !link.IsActive {
		return nil, ErrNoActiveRelationship
	}
	return link, nil
}

// roundHalfUp rounds to the nearest integer, halves away from zero.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
