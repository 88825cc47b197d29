package service

import (
	"context"
	"strings"
	"testing"

	"massimino/fitness-platform/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newExerciseFixture() (ExerciseService, *fakeExerciseRepo) {
	repo := newFakeExerciseRepo()
	return NewExerciseService(repo, &fakeFileStorage{}), repo
}

func TestExercise_CreateOwned(t *testing.T) {
	svc, _ := newExerciseFixture()
	trainerID := primitive.NewObjectID()

	created, err := svc.CreateExercise(context.Background(), &trainerID, &domain.Exercise{
		Name:         "Bulgarian Split Squat",
		Category:     "Compound",
		MuscleGroups: []string{"Quads", "Glutes"},
	})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	require.NotNil(t, created.OwnerID)
	require.Equal(t, trainerID, *created.OwnerID)
}

func TestExercise_CreateSystemOwned(t *testing.T) {
	svc, _ := newExerciseFixture()
	created, err := svc.CreateExercise(context.Background(), nil, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)
	require.Nil(t, created.OwnerID)
}

func TestExercise_CreateRequiresName(t *testing.T) {
	svc, _ := newExerciseFixture()
	_, err := svc.CreateExercise(context.Background(), nil, &domain.Exercise{})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestExercise_UpdateOwnership(t *testing.T) {
	svc, _ := newExerciseFixture()
	trainerID := primitive.NewObjectID()
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, &trainerID, &domain.Exercise{Name: "Row"})
	require.NoError(t, err)

	// The owner can rename it.
	updated, err := svc.UpdateExercise(ctx, trainerID, false, &domain.Exercise{ID: created.ID, Name: "Barbell Row"})
	require.NoError(t, err)
	require.Equal(t, "Barbell Row", updated.Name)

	// Another trainer cannot.
	_, err = svc.UpdateExercise(ctx, primitive.NewObjectID(), false, &domain.Exercise{ID: created.ID, Name: "Hijacked"})
	require.ErrorIs(t, err, ErrExerciseAccessDenied)

	// An admin can.
	_, err = svc.UpdateExercise(ctx, primitive.NewObjectID(), true, &domain.Exercise{ID: created.ID, Name: "Pendlay Row"})
	require.NoError(t, err)
}

func TestExercise_SystemEntriesAdminOnly(t *testing.T) {
	svc, _ := newExerciseFixture()
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, nil, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)

	_, err = svc.UpdateExercise(ctx, primitive.NewObjectID(), false, &domain.Exercise{ID: created.ID, Name: "Back Squat"})
	require.ErrorIs(t, err, ErrExerciseAccessDenied)

	_, err = svc.UpdateExercise(ctx, primitive.NewObjectID(), true, &domain.Exercise{ID: created.ID, Name: "Back Squat"})
	require.NoError(t, err)
}

func TestExercise_UpdateUnknown(t *testing.T) {
	svc, _ := newExerciseFixture()
	_, err := svc.UpdateExercise(context.Background(), primitive.NewObjectID(), true, &domain.Exercise{
		ID: primitive.NewObjectID(), Name: "Ghost",
	})
	require.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestExercise_MediaUploadAssignsKey(t *testing.T) {
	svc, repo := newExerciseFixture()
	trainerID := primitive.NewObjectID()
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, &trainerID, &domain.Exercise{Name: "Row"})
	require.NoError(t, err)

	url, err := svc.GetMediaUploadURL(ctx, trainerID, created.ID, "video/mp4")
	require.NoError(t, err)
	require.Contains(t, url, "exercises/"+created.ID.Hex()+"/")

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored.MediaObjectKey, "exercises/"+created.ID.Hex()+"/"))

	download, err := svc.GetMediaDownloadURL(ctx, created.ID)
	require.NoError(t, err)
	require.Contains(t, download, stored.MediaObjectKey)
}

func TestExercise_MediaUploadChecksOwnership(t *testing.T) {
	svc, _ := newExerciseFixture()
	trainerID := primitive.NewObjectID()
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, &trainerID, &domain.Exercise{Name: "Row"})
	require.NoError(t, err)

	_, err = svc.GetMediaUploadURL(ctx, primitive.NewObjectID(), created.ID, "video/mp4")
	require.ErrorIs(t, err, ErrExerciseAccessDenied)
}

func TestExercise_DownloadWithoutMedia(t *testing.T) {
	svc, _ := newExerciseFixture()
	ctx := context.Background()

	created, err := svc.CreateExercise(ctx, nil, &domain.Exercise{Name: "Squat"})
	require.NoError(t, err)

	_, err = svc.GetMediaDownloadURL(ctx, created.ID)
	require.ErrorIs(t, err, ErrExerciseNotFound)
}
