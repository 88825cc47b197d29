package service

import (
	"context"
	"testing"

	"massimino/fitness-platform/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestResolver_ExactMatch(t *testing.T) {
	repo := newFakeExerciseRepo()
	wantID := repo.add(domain.Exercise{Name: "Barbell Row"})
	repo.add(domain.Exercise{Name: "Barbell Row Variation"})

	r := NewExerciseResolver(repo, testLogger())
	id, ok, err := r.Resolve(context.Background(), "Barbell Row")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wantID, id)
}

func TestResolver_TrailingSStripped(t *testing.T) {
	repo := newFakeExerciseRepo()
	wantID := repo.add(domain.Exercise{Name: "Barbell Row"})

	r := NewExerciseResolver(repo, testLogger())
	id, ok, err := r.Resolve(context.Background(), "Barbell Rows")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wantID, id)
}

func TestResolver_FuzzyFirstToken(t *testing.T) {
	repo := newFakeExerciseRepo()
	wantID := repo.add(domain.Exercise{Name: "Deadlift"})

	r := NewExerciseResolver(repo, testLogger())
	id, ok, err := r.Resolve(context.Background(), "Deadlift from blocks")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wantID, id)
}

func TestResolver_AliasVerbatim(t *testing.T) {
	repo := newFakeExerciseRepo()
	wantID := repo.add(domain.Exercise{Name: "Romanian Deadlift", Aliases: []string{"RDL"}})

	r := NewExerciseResolver(repo, testLogger())
	id, ok, err := r.Resolve(context.Background(), "RDL")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wantID, id)
}

func TestResolver_MissIsNotAnError(t *testing.T) {
	repo := newFakeExerciseRepo()
	repo.add(domain.Exercise{Name: "Bench Press"})

	r := NewExerciseResolver(repo, testLogger())
	_, ok, err := r.Resolve(context.Background(), "Zercher Squat")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolver_EmptyNameIsMiss(t *testing.T) {
	repo := newFakeExerciseRepo()

	r := NewExerciseResolver(repo, testLogger())
	_, ok, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.False(t, ok)
}
