package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"
	"massimino/fitness-platform/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify this exercise")
	ErrValidationFailed     = errors.New("exercise validation failed")
)

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, ownerID *primitive.ObjectID, exercise *domain.Exercise) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, exercise *domain.Exercise) (*domain.Exercise, error)

	// GetMediaUploadURL presigns a PUT for the exercise's demo media and
	// stores the resulting object key on the record.
	GetMediaUploadURL(ctx context.Context, callerID, exerciseID primitive.ObjectID, contentType string) (string, error)
	// GetMediaDownloadURL presigns a GET for the exercise's demo media.
	GetMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a catalog entry. A nil ownerID creates a system-owned
// exercise (seeding and admin paths); trainers own what they create.
func (s *exerciseService) CreateExercise(ctx context.Context, ownerID *primitive.ObjectID, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}

	exercise.OwnerID = ownerID
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises retrieves the whole catalog.
func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

// UpdateExercise updates an exercise, enforcing ownership. System-owned
// entries are only editable by admins.
func (s *exerciseService) UpdateExercise(ctx context.Context, callerID primitive.ObjectID, isAdmin bool, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exercise.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if !s.canModify(existing, callerID, isAdmin) {
		return nil, ErrExerciseAccessDenied
	}

	existing.Name = exercise.Name
	existing.Category = exercise.Category
	existing.MuscleGroups = exercise.MuscleGroups
	existing.Equipment = exercise.Equipment
	existing.Difficulty = exercise.Difficulty
	existing.Instructions = exercise.Instructions
	existing.Aliases = exercise.Aliases
	existing.UpdatedAt = time.Now().UTC()

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// GetMediaUploadURL assigns a fresh object key and presigns the upload. The
// key overwrites any previous media reference; the old object is left to
// bucket lifecycle rules.
func (s *exerciseService) GetMediaUploadURL(ctx context.Context, callerID, exerciseID primitive.ObjectID, contentType string) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}
	if !s.canModify(exercise, callerID, false) {
		return "", ErrExerciseAccessDenied
	}

	objectKey := fmt.Sprintf("exercises/%s/%s", exerciseID.Hex(), uuid.NewString())
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", err
	}

	exercise.MediaObjectKey = objectKey
	exercise.UpdatedAt = time.Now().UTC()
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return "", err
	}
	return url, nil
}

// GetMediaDownloadURL presigns a GET for the stored media key.
func (s *exerciseService) GetMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}
	if exercise.MediaObjectKey == "" {
		return "", ErrExerciseNotFound
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.MediaObjectKey, storage.DefaultPresignedURLExpiry)
}

func (s *exerciseService) canModify(exercise *domain.Exercise, callerID primitive.ObjectID, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return exercise.OwnerID != nil && *exercise.OwnerID == callerID
}
