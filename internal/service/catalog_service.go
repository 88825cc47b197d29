package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/metrics"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound = errors.New("program template not found")
)

// CatalogService materializes authored program template documents into the
// relational template tree.
type CatalogService interface {
	// UpsertProgram idempotently writes a template row under a fixed id and
	// replaces its phase list. Phase ids are regenerated on every call;
	// callers address phases as (programID, phaseNumber).
	UpsertProgram(ctx context.Context, programID primitive.ObjectID, tmpl *domain.ProgramTemplate, phases []domain.ProgramPhase) error

	// IngestTemplate parses an authored document, upserts the program and,
	// for phase-structured documents, rebuilds the microcycle/workout/
	// exercise tree underneath, resolving exercise names against the
	// catalog. Unresolved names are skipped with a warning.
	IngestTemplate(ctx context.Context, programID primitive.ObjectID, data []byte, ownerID *primitive.ObjectID) (*domain.TemplateDocument, error)

	GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.ProgramTemplate, error)
	GetProgramPhases(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramPhase, error)
	ListPublicPrograms(ctx context.Context) ([]domain.ProgramTemplate, error)
	DeactivateProgram(ctx context.Context, programID primitive.ObjectID) error
}

type catalogService struct {
	programRepo repository.ProgramRepository
	resolver    ExerciseResolver
	logger      *slog.Logger
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(programRepo repository.ProgramRepository, resolver ExerciseResolver, logger *slog.Logger) CatalogService {
	return &catalogService{
		programRepo: programRepo,
		resolver:    resolver,
		logger:      logger,
	}
}

// UpsertProgram writes the template row, then replaces the program's phases
// with the given list via delete-then-insert. The microcycle/workout/
// exercise subtree is cleared along with the phases: its rows reference
// phase ids that no longer exist after a reseed. Any error aborts the
// remaining work for this program; re-running the seed repairs it.
func (s *catalogService) UpsertProgram(ctx context.Context, programID primitive.ObjectID, tmpl *domain.ProgramTemplate, phases []domain.ProgramPhase) error {
	if programID == primitive.NilObjectID {
		return errors.New("program ID is required")
	}

	tmpl.ID = programID
	if err := s.programRepo.UpsertTemplate(ctx, tmpl); err != nil {
		return fmt.Errorf("upsert template %s: %w", programID.Hex(), err)
	}

	if err := s.programRepo.DeletePhasesByProgramID(ctx, programID); err != nil {
		return fmt.Errorf("delete phases for %s: %w", programID.Hex(), err)
	}
	if err := s.programRepo.DeleteTreeByProgramID(ctx, programID); err != nil {
		return fmt.Errorf("delete template tree for %s: %w", programID.Hex(), err)
	}

	for i := range phases {
		phases[i].ProgramID = programID
	}
	if err := s.programRepo.InsertPhases(ctx, phases); err != nil {
		return fmt.Errorf("insert phases for %s: %w", programID.Hex(), err)
	}

	metrics.ProgramUpsertsTotal.Inc()
	return nil
}

// IngestTemplate decodes and materializes one authored document.
func (s *catalogService) IngestTemplate(ctx context.Context, programID primitive.ObjectID, data []byte, ownerID *primitive.ObjectID) (*domain.TemplateDocument, error) {
	doc, err := domain.ParseTemplateDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse template document: %w", err)
	}

	tmpl := &domain.ProgramTemplate{
		Name:         doc.Name,
		Description:  doc.Description,
		Visibility:   domain.VisibilityPublic,
		TemplateData: doc.Raw,
		OwnerID:      ownerID,
		IsActive:     true,
	}

	phases := phasesFromDocument(programID, doc)
	tmpl.DurationWeeks = durationFromPhases(phases)

	if err := s.UpsertProgram(ctx, programID, tmpl, phases); err != nil {
		return nil, err
	}

	if doc.Kind != domain.TemplatePhaseStructured {
		// Exercise-list and weekly-schedule documents carry no phase tree;
		// they are stored as the raw blob only.
		return doc, nil
	}

	// Rebuild the tree below the freshly inserted phases.
	inserted, err := s.programRepo.GetPhasesByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}
	phaseByNumber := make(map[int]domain.ProgramPhase, len(inserted))
	for _, p := range inserted {
		phaseByNumber[p.PhaseNumber] = p
	}

	for _, phaseDef := range doc.PhaseStructure {
		phase, ok := phaseByNumber[phaseDef.PhaseNumber]
		if !ok {
			continue
		}
		if err := s.ingestPhaseTree(ctx, programID, phase.ID, phaseDef); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ingestPhaseTree inserts microcycles, workouts and workout-exercises for
// one phase definition.
func (s *catalogService) ingestPhaseTree(ctx context.Context, programID, phaseID primitive.ObjectID, phaseDef domain.TemplatePhaseDef) error {
	for _, week := range phaseDef.Weeks {
		mc := &domain.ProgramMicrocycle{
			PhaseID:           phaseID,
			ProgramID:         programID,
			WeekNumber:        week.WeekNumber,
			VolumeModifier:    orDefault(week.VolumeModifier),
			IntensityModifier: orDefault(week.IntensityModifier),
		}
		mcID, err := s.programRepo.InsertMicrocycle(ctx, mc)
		if err != nil {
			return err
		}

		for _, day := range week.Days {
			w := &domain.ProgramWorkout{
				MicrocycleID: mcID,
				ProgramID:    programID,
				DayNumber:    day.DayNumber,
				Label:        day.Label,
				WorkoutType:  day.WorkoutType,
			}
			workoutID, err := s.programRepo.InsertWorkout(ctx, w)
			if err != nil {
				return err
			}

			order := 1
			for _, ex := range day.Exercises {
				exerciseID, ok, err := s.resolver.Resolve(ctx, ex.ExerciseName)
				if err != nil {
					return err
				}
				if !ok {
					s.logger.Warn("skipping unresolved exercise",
						"program", programID.Hex(), "name", ex.ExerciseName)
					continue
				}
				we := &domain.ProgramWorkoutExercise{
					WorkoutID:   workoutID,
					ProgramID:   programID,
					ExerciseID:  exerciseID,
					Order:       order,
					Sets:        ex.Sets,
					RepRange:    string(ex.Reps),
					RestSeconds: ex.RestSeconds,
					Tempo:       ex.Tempo,
					Notes:       ex.Notes,
				}
				if _, err := s.programRepo.InsertWorkoutExercise(ctx, we); err != nil {
					return err
				}
				order++
			}
		}
	}
	return nil
}

// GetProgram retrieves one template.
func (s *catalogService) GetProgram(ctx context.Context, programID primitive.ObjectID) (*domain.ProgramTemplate, error) {
	tmpl, err := s.programRepo.GetTemplateByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return tmpl, nil
}

// GetProgramPhases retrieves a program's phases ordered by phaseNumber.
func (s *catalogService) GetProgramPhases(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramPhase, error) {
	return s.programRepo.GetPhasesByProgramID(ctx, programID)
}

// ListPublicPrograms retrieves the browsable catalog.
func (s *catalogService) ListPublicPrograms(ctx context.Context) ([]domain.ProgramTemplate, error) {
	return s.programRepo.ListTemplates(ctx, domain.VisibilityPublic)
}

// DeactivateProgram hides a program. Templates are never physically deleted.
func (s *catalogService) DeactivateProgram(ctx context.Context, programID primitive.ObjectID) error {
	err := s.programRepo.DeactivateTemplate(ctx, programID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// phasesFromDocument maps a document's phase definitions onto phase rows.
// Non-phase-structured documents produce an empty list.
func phasesFromDocument(programID primitive.ObjectID, doc *domain.TemplateDocument) []domain.ProgramPhase {
	phases := make([]domain.ProgramPhase, 0, len(doc.PhaseStructure))
	for _, def := range doc.PhaseStructure {
		phases = append(phases, domain.ProgramPhase{
			ProgramID:       programID,
			PhaseNumber:     def.PhaseNumber,
			Name:            def.Name,
			StartWeek:       def.StartWeek,
			EndWeek:         def.EndWeek,
			TargetIntensity: def.TargetIntensity,
			TargetVolume:    def.TargetVolume,
			RepRange:        def.RepRange,
			Sets:            def.Sets,
			RestRange:       def.RestRange,
		})
	}
	return phases
}

// durationFromPhases derives the program length from the highest end week.
func durationFromPhases(phases []domain.ProgramPhase) int {
	max := 0
	for _, p := range phases {
		if p.EndWeek > max {
			max = p.EndWeek
		}
	}
	return max
}

// orDefault treats an absent modifier as the multiplicative identity.
func orDefault(v float64) float64 {
	if v == 0 {
		return 1.0
	}
	return v
}
