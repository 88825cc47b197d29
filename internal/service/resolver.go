package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"massimino/fitness-platform/internal/metrics"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseResolver maps free-text exercise names from authored templates to
// canonical catalog records. A miss is not an error: callers skip the
// exercise and continue.
type ExerciseResolver interface {
	// Resolve returns the matching exercise id, or false if no exercise
	// could be matched.
	Resolve(ctx context.Context, name string) (primitive.ObjectID, bool, error)
}

type exerciseResolver struct {
	exerciseRepo repository.ExerciseRepository
	logger       *slog.Logger
}

// NewExerciseResolver creates a resolver over the exercise catalog.
func NewExerciseResolver(exerciseRepo repository.ExerciseRepository, logger *slog.Logger) ExerciseResolver {
	return &exerciseResolver{
		exerciseRepo: exerciseRepo,
		logger:       logger,
	}
}

// Resolve tries, in order: exact case-sensitive match; exact match with a
// trailing "s" stripped (naive singularization); first exercise whose name
// contains the input's first whitespace token case-insensitively or whose
// alias list contains the input verbatim. Ambiguous fuzzy matches are not
// ranked, the first result wins.
func (r *exerciseResolver) Resolve(ctx context.Context, name string) (primitive.ObjectID, bool, error) {
	if name == "" {
		metrics.ExerciseResolutionsTotal.WithLabelValues(metrics.ResolveMiss).Inc()
		return primitive.NilObjectID, false, nil
	}

	// 1. Exact match
	exercise, err := r.exerciseRepo.GetByName(ctx, name)
	if err == nil {
		metrics.ExerciseResolutionsTotal.WithLabelValues(metrics.ResolveExact).Inc()
		return exercise.ID, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, false, err
	}

	// 2. Naive singularization: "Barbell Rows" -> "Barbell Row"
	if strings.HasSuffix(name, "s") {
		exercise, err = r.exerciseRepo.GetByName(ctx, strings.TrimSuffix(name, "s"))
		if err == nil {
			metrics.ExerciseResolutionsTotal.WithLabelValues(metrics.ResolveSingular).Inc()
			return exercise.ID, true, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, false, err
		}
	}

	// 3. Fuzzy fallback on the first token, or an exact alias hit
	token := name
	if idx := strings.IndexAny(name, " \t"); idx > 0 {
		token = name[:idx]
	}
	exercise, err = r.exerciseRepo.FindFirstFuzzy(ctx, token, name)
	if err == nil {
		metrics.ExerciseResolutionsTotal.WithLabelValues(metrics.ResolveFuzzy).Inc()
		return exercise.ID, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, false, err
	}

	metrics.ExerciseResolutionsTotal.WithLabelValues(metrics.ResolveMiss).Inc()
	r.logger.Warn("exercise name did not resolve", "name", name)
	return primitive.NilObjectID, false, nil
}
