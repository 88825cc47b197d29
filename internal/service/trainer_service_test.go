package service

import (
	"context"
	"testing"

	"massimino/fitness-platform/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type trainerFixture struct {
	svc         TrainerService
	userRepo    *fakeUserRepo
	linkRepo    *fakeLinkRepo
	programRepo *fakeProgramRepo
	sessionRepo *fakeSessionRepo
	subRepo     *fakeSubscriptionRepo
	notifier    *fakeNotifier

	trainerID primitive.ObjectID
	athleteID primitive.ObjectID
}

func newTrainerFixture(t *testing.T, linked bool) *trainerFixture {
	t.Helper()
	f := &trainerFixture{
		userRepo:    newFakeUserRepo(),
		linkRepo:    newFakeLinkRepo(),
		programRepo: newFakeProgramRepo(),
		sessionRepo: newFakeSessionRepo(),
		subRepo:     newFakeSubscriptionRepo(),
		notifier:    &fakeNotifier{},
	}
	f.svc = NewTrainerService(f.userRepo, f.linkRepo, f.programRepo, f.sessionRepo, f.subRepo, f.notifier)

	f.trainerID = f.userRepo.add(domain.User{Name: "Coach", Email: "coach@example.com", Role: domain.RoleTrainer})
	f.athleteID = f.userRepo.add(domain.User{Name: "Athlete", Email: "athlete@example.com", Role: domain.RoleAthlete})
	if linked {
		_, err := f.linkRepo.Create(context.Background(), &domain.TrainerClientLink{
			TrainerID: f.trainerID,
			ClientID:  f.athleteID,
			IsActive:  true,
		})
		require.NoError(t, err)
	}
	return f
}

// seedProgram builds one template with a single phase, one week and one
// two-exercise workout directly in the fake repository.
func (f *trainerFixture) seedProgram(t *testing.T, name, workoutLabel string) (programID, benchID, squatID primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()

	tmpl := &domain.ProgramTemplate{
		Name:          name,
		DurationWeeks: 4,
		Visibility:    domain.VisibilityPublic,
		IsActive:      true,
	}
	programID, err := f.programRepo.InsertTemplate(ctx, tmpl)
	require.NoError(t, err)

	phases := []domain.ProgramPhase{{ProgramID: programID, PhaseNumber: 1, Name: "Base", StartWeek: 1, EndWeek: 4}}
	require.NoError(t, f.programRepo.InsertPhases(ctx, phases))

	mcID, err := f.programRepo.InsertMicrocycle(ctx, &domain.ProgramMicrocycle{
		PhaseID: phases[0].ID, ProgramID: programID, WeekNumber: 1, VolumeModifier: 1, IntensityModifier: 1,
	})
	require.NoError(t, err)

	workoutID, err := f.programRepo.InsertWorkout(ctx, &domain.ProgramWorkout{
		MicrocycleID: mcID, ProgramID: programID, DayNumber: 1, Label: workoutLabel,
	})
	require.NoError(t, err)

	benchID = primitive.NewObjectID()
	squatID = primitive.NewObjectID()
	_, err = f.programRepo.InsertWorkoutExercise(ctx, &domain.ProgramWorkoutExercise{
		WorkoutID: workoutID, ProgramID: programID, ExerciseID: benchID, Order: 1, Sets: 4, RepRange: "8-10",
	})
	require.NoError(t, err)
	_, err = f.programRepo.InsertWorkoutExercise(ctx, &domain.ProgramWorkoutExercise{
		WorkoutID: workoutID, ProgramID: programID, ExerciseID: squatID, Order: 2, Sets: 5, RepRange: "5",
	})
	require.NoError(t, err)
	return programID, benchID, squatID
}

// === Client management ===

func TestTrainer_AddClientByEmail(t *testing.T) {
	f := newTrainerFixture(t, false)
	ctx := context.Background()

	client, err := f.svc.AddClientByEmail(ctx, f.trainerID, "athlete@example.com")
	require.NoError(t, err)
	require.Equal(t, f.athleteID, client.ID)
	require.Empty(t, client.PasswordHash)

	clients, err := f.svc.GetManagedClients(ctx, f.trainerID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
}

func TestTrainer_AddClientUnknownEmail(t *testing.T) {
	f := newTrainerFixture(t, false)
	_, err := f.svc.AddClientByEmail(context.Background(), f.trainerID, "nobody@example.com")
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestTrainer_AddClientWrongRole(t *testing.T) {
	f := newTrainerFixture(t, false)
	f.userRepo.add(domain.User{Name: "Other Coach", Email: "rival@example.com", Role: domain.RoleTrainer})

	_, err := f.svc.AddClientByEmail(context.Background(), f.trainerID, "rival@example.com")
	require.ErrorIs(t, err, ErrClientNotRole)
}

func TestTrainer_AddClientTwice(t *testing.T) {
	f := newTrainerFixture(t, true)
	_, err := f.svc.AddClientByEmail(context.Background(), f.trainerID, "athlete@example.com")
	require.ErrorIs(t, err, ErrClientAlreadyLinked)
}

func TestTrainer_InactiveLinkHidesClient(t *testing.T) {
	f := newTrainerFixture(t, false)
	_, err := f.linkRepo.Create(context.Background(), &domain.TrainerClientLink{
		TrainerID: f.trainerID, ClientID: f.athleteID, IsActive: false,
	})
	require.NoError(t, err)

	clients, err := f.svc.GetManagedClients(context.Background(), f.trainerID)
	require.NoError(t, err)
	require.Empty(t, clients)
}

// === Session generation ===

func TestTrainer_CreateSessionFromProgram(t *testing.T) {
	f := newTrainerFixture(t, true)
	programID, _, _ := f.seedProgram(t, "Strength Block", "Upper A")
	ctx := context.Background()

	session, err := f.svc.CreateSessionForAthlete(ctx, f.trainerID, f.athleteID, SessionSpec{ProgramID: &programID})
	require.NoError(t, err)
	require.Equal(t, "Strength Block - Upper A", session.Title)
	require.Equal(t, f.athleteID, session.AthleteID)
	require.Equal(t, f.trainerID, session.TrainerID)
	require.NotNil(t, session.ProgramID)
	require.Equal(t, programID, *session.ProgramID)
	require.NotNil(t, session.WorkoutID)

	link, err := f.linkRepo.GetByTrainerAndClient(ctx, f.trainerID, f.athleteID)
	require.NoError(t, err)
	require.NotNil(t, link.LastSessionDate)

	require.Equal(t, []string{"Strength Block - Upper A"}, f.notifier.scheduled)
}

func TestTrainer_SessionTitleFallsBackToDayNumber(t *testing.T) {
	f := newTrainerFixture(t, true)
	programID, _, _ := f.seedProgram(t, "Strength Block", "")

	session, err := f.svc.CreateSessionForAthlete(context.Background(), f.trainerID, f.athleteID, SessionSpec{ProgramID: &programID})
	require.NoError(t, err)
	require.Equal(t, "Strength Block - Day 1", session.Title)
}

func TestTrainer_CreateSessionFromCustomExercises(t *testing.T) {
	f := newTrainerFixture(t, true)

	session, err := f.svc.CreateSessionForAthlete(context.Background(), f.trainerID, f.athleteID, SessionSpec{
		CustomExercises: []string{"Push-up", "Plank"},
	})
	require.NoError(t, err)
	require.Equal(t, "Custom session", session.Title)
	require.Equal(t, "Push-up\nPlank", session.Notes)
	require.Nil(t, session.ProgramID)
}

func TestTrainer_CreateSessionRequiresLink(t *testing.T) {
	f := newTrainerFixture(t, false)
	programID, _, _ := f.seedProgram(t, "Strength Block", "Upper A")

	_, err := f.svc.CreateSessionForAthlete(context.Background(), f.trainerID, f.athleteID, SessionSpec{ProgramID: &programID})
	require.ErrorIs(t, err, ErrNoActiveRelationship)
}

func TestTrainer_CreateSessionEmptySpec(t *testing.T) {
	f := newTrainerFixture(t, true)
	_, err := f.svc.CreateSessionForAthlete(context.Background(), f.trainerID, f.athleteID, SessionSpec{})
	require.ErrorIs(t, err, ErrSessionSpecEmpty)
}

func TestTrainer_CreateSessionEmptyProgram(t *testing.T) {
	f := newTrainerFixture(t, true)
	ctx := context.Background()
	programID, err := f.programRepo.InsertTemplate(ctx, &domain.ProgramTemplate{Name: "Empty", IsActive: true})
	require.NoError(t, err)

	_, err = f.svc.CreateSessionForAthlete(ctx, f.trainerID, f.athleteID, SessionSpec{ProgramID: &programID})
	require.ErrorIs(t, err, ErrProgramHasNoWorkouts)
}

// === Program cloning ===

func TestTrainer_CloneProgramForAthlete(t *testing.T) {
	f := newTrainerFixture(t, true)
	programID, benchID, squatID := f.seedProgram(t, "Strength Block", "Upper A")
	replacement := primitive.NewObjectID()
	ctx := context.Background()

	clone, err := f.svc.CloneProgramForAthlete(ctx, f.trainerID, f.athleteID, programID, CloneCustomizations{
		ExerciseSwaps:     map[primitive.ObjectID]primitive.ObjectID{benchID: replacement},
		VolumeAdjustments: map[primitive.ObjectID]float64{benchID: 0.5, squatID: 0.5},
	})
	require.NoError(t, err)
	require.NotEqual(t, programID, clone.ID)
	require.Equal(t, domain.VisibilityPrivate, clone.Visibility)
	require.NotNil(t, clone.OwnerID)
	require.Equal(t, f.trainerID, *clone.OwnerID)

	phases, err := f.programRepo.GetPhasesByProgramID(ctx, clone.ID)
	require.NoError(t, err)
	require.Len(t, phases, 1)

	cycles, err := f.programRepo.GetMicrocyclesByPhaseID(ctx, phases[0].ID)
	require.NoError(t, err)
	require.Len(t, cycles, 1)

	workouts, err := f.programRepo.GetWorkoutsByMicrocycleID(ctx, cycles[0].ID)
	require.NoError(t, err)
	require.Len(t, workouts, 1)

	exercises, err := f.programRepo.GetExercisesByWorkoutID(ctx, workouts[0].ID)
	require.NoError(t, err)
	require.Len(t, exercises, 2)

	// Swap applied, volume halved: 4 sets -> 2, 5 sets -> 3 (half rounds up).
	require.Equal(t, replacement, exercises[0].ExerciseID)
	require.Equal(t, 2, exercises[0].Sets)
	require.Equal(t, squatID, exercises[1].ExerciseID)
	require.Equal(t, 3, exercises[1].Sets)

	// The athlete starts the clone at week 1, day 1.
	subs, err := f.subRepo.GetActiveByUser(ctx, f.athleteID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, clone.ID, subs[0].ProgramID)
	require.Equal(t, 1, subs[0].CurrentWeek)
	require.Equal(t, 1, subs[0].CurrentDay)
	require.True(t, subs[0].IsActive)

	require.Equal(t, []string{"Strength Block"}, f.notifier.assigned)
}

func TestTrainer_CloneLeavesSourceUntouched(t *testing.T) {
	f := newTrainerFixture(t, true)
	programID, benchID, _ := f.seedProgram(t, "Strength Block", "Upper A")
	ctx := context.Background()

	_, err := f.svc.CloneProgramForAthlete(ctx, f.trainerID, f.athleteID, programID, CloneCustomizations{
		VolumeAdjustments: map[primitive.ObjectID]float64{benchID: 2.0},
	})
	require.NoError(t, err)

	phases, err := f.programRepo.GetPhasesByProgramID(ctx, programID)
	require.NoError(t, err)
	cycles, err := f.programRepo.GetMicrocyclesByPhaseID(ctx, phases[0].ID)
	require.NoError(t, err)
	workouts, err := f.programRepo.GetWorkoutsByMicrocycleID(ctx, cycles[0].ID)
	require.NoError(t, err)
	exercises, err := f.programRepo.GetExercisesByWorkoutID(ctx, workouts[0].ID)
	require.NoError(t, err)
	require.Equal(t, 4, exercises[0].Sets)
}

func TestTrainer_CloneRequiresLink(t *testing.T) {
	f := newTrainerFixture(t, false)
	programID, _, _ := f.seedProgram(t, "Strength Block", "Upper A")

	_, err := f.svc.CloneProgramForAthlete(context.Background(), f.trainerID, f.athleteID, programID, CloneCustomizations{})
	require.ErrorIs(t, err, ErrNoActiveRelationship)
}

func TestTrainer_CloneMissingSourcePhase(t *testing.T) {
	f := newTrainerFixture(t, true)
	programID, _, _ := f.seedProgram(t, "Strength Block", "Upper A")
	ctx := context.Background()

	phases, err := f.programRepo.GetPhasesByProgramID(ctx, programID)
	require.NoError(t, err)
	f.programRepo.missingPhases[phases[0].ID] = true

	_, err = f.svc.CloneProgramForAthlete(ctx, f.trainerID, f.athleteID, programID, CloneCustomizations{})
	require.ErrorIs(t, err, ErrSourcePhaseMissing)
}

func TestTrainer_CloneUnknownProgram(t *testing.T) {
	f := newTrainerFixture(t, true)
	_, err := f.svc.CloneProgramForAthlete(context.Background(), f.trainerID, f.athleteID, primitive.NewObjectID(), CloneCustomizations{})
	require.ErrorIs(t, err, ErrProgramNotFound)
}

func TestRoundHalfUp(t *testing.T) {
	require.Equal(t, 2, roundHalfUp(2.0))
	require.Equal(t, 2, roundHalfUp(2.4))
	require.Equal(t, 3, roundHalfUp(2.5))
	require.Equal(t, 3, roundHalfUp(2.6))
	require.Equal(t, 0, roundHalfUp(0.4))
	require.Equal(t, 1, roundHalfUp(0.5))
}
