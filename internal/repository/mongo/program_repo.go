package mongo

import (
	"context"
	"errors"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	templateCollectionName        = "program_templates"
	phaseCollectionName           = "program_phases"
	microcycleCollectionName      = "program_microcycles"
	programWorkoutCollectionName  = "program_workouts"
	workoutExerciseCollectionName = "program_workout_exercises"
)

// mongoProgramRepository implements repository.ProgramRepository over the
// five collections of the template tree.
type mongoProgramRepository struct {
	templates        *mongo.Collection
	phases           *mongo.Collection
	microcycles      *mongo.Collection
	workouts         *mongo.Collection
	workoutExercises *mongo.Collection
}

// NewMongoProgramRepository creates a new program repository backed by MongoDB.
func NewMongoProgramRepository(db *mongo.Database) repository.ProgramRepository {
	return &mongoProgramRepository{
		templates:        db.Collection(templateCollectionName),
		phases:           db.Collection(phaseCollectionName),
		microcycles:      db.Collection(microcycleCollectionName),
		workouts:         db.Collection(programWorkoutCollectionName),
		workoutExercises: db.Collection(workoutExerciseCollectionName),
	}
}

// === Templates ===

// InsertTemplate inserts a template with a generated id.
func (r *mongoProgramRepository) InsertTemplate(ctx context.Context, tmpl *domain.ProgramTemplate) (primitive.ObjectID, error) {
	if tmpl.Name == "" {
		return primitive.NilObjectID, errors.New("template name is required")
	}

	tmpl.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	result, err := r.templates.InsertOne(ctx, tmpl)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// UpsertTemplate creates the template under its fixed id, or, when it already
// exists, updates only description, templateData and updatedAt. The create
// branch writes the full metadata.
func (r *mongoProgramRepository) UpsertTemplate(ctx context.Context, tmpl *domain.ProgramTemplate) error {
	if tmpl.ID == primitive.NilObjectID {
		return errors.New("template ID is required for upsert")
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"description":  tmpl.Description,
			"templateData": tmpl.TemplateData,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"name":                tmpl.Name,
			"durationWeeks":       tmpl.DurationWeeks,
			"difficulty":          tmpl.Difficulty,
			"category":            tmpl.Category,
			"visibility":          tmpl.Visibility,
			"priceCents":          tmpl.PriceCents,
			"tags":                tmpl.Tags,
			"progressionStrategy": tmpl.ProgressionStrategy,
			"ownerId":             tmpl.OwnerID,
			"isActive":            true,
			"createdAt":           now,
		},
	}

	_, err := r.templates.UpdateByID(ctx, tmpl.ID, update, options.Update().SetUpsert(true))
	return err
}

// GetTemplateByID retrieves a template by its ID.
func (r *mongoProgramRepository) GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramTemplate, error) {
	var tmpl domain.ProgramTemplate
	err := r.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&tmpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

// ListTemplates retrieves active templates with the given visibility.
func (r *mongoProgramRepository) ListTemplates(ctx context.Context, visibility domain.Visibility) ([]domain.ProgramTemplate, error) {
	var templates []domain.ProgramTemplate
	filter := bson.M{"visibility": visibility, "isActive": true}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.templates.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// DeactivateTemplate marks a template inactive. Templates are never deleted.
func (r *mongoProgramRepository) DeactivateTemplate(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := r.templates.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// === Phases ===

// DeletePhasesByProgramID removes every phase of a program. Used together
// with InsertPhases for reseeds; phase ids are not stable across the pair.
func (r *mongoProgramRepository) DeletePhasesByProgramID(ctx context.Context, programID primitive.ObjectID) error {
	_, err := r.phases.DeleteMany(ctx, bson.M{"programId": programID})
	return err
}

// InsertPhases bulk-inserts the given phase list.
func (r *mongoProgramRepository) InsertPhases(ctx context.Context, phases []domain.ProgramPhase) error {
	if len(phases) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(phases))
	for i := range phases {
		phases[i].ID = primitive.NewObjectID()
		phases[i].CreatedAt = now
		docs[i] = phases[i]
	}
	_, err := r.phases.InsertMany(ctx, docs)
	return err
}

// GetPhasesByProgramID retrieves a program's phases ordered by phaseNumber.
func (r *mongoProgramRepository) GetPhasesByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.ProgramPhase, error) {
	var phases []domain.ProgramPhase
	findOptions := options.Find().SetSort(bson.D{{Key: "phaseNumber", Value: 1}})

	cursor, err := r.phases.Find(ctx, bson.M{"programId": programID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &phases); err != nil {
		return nil, err
	}
	return phases, nil
}

// DeleteTreeByProgramID removes a program's microcycles, workouts and
// workout-exercises. The tree rows carry a denormalized programId so the
// whole subtree can be cleared without walking it.
func (r *mongoProgramRepository) DeleteTreeByProgramID(ctx context.Context, programID primitive.ObjectID) error {
	filter := bson.M{"programId": programID}
	if _, err := r.microcycles.DeleteMany(ctx, filter); err != nil {
		return err
	}
	if _, err := r.workouts.DeleteMany(ctx, filter); err != nil {
		return err
	}
	_, err := r.workoutExercises.DeleteMany(ctx, filter)
	return err
}

// === Microcycles ===

func (r *mongoProgramRepository) InsertMicrocycle(ctx context.Context, mc *domain.ProgramMicrocycle) (primitive.ObjectID, error) {
	mc.ID = primitive.NewObjectID()
	mc.CreatedAt = time.Now().UTC()

	result, err := r.microcycles.InsertOne(ctx, mc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoProgramRepository) GetMicrocyclesByPhaseID(ctx context.Context, phaseID primitive.ObjectID) ([]domain.ProgramMicrocycle, error) {
	var cycles []domain.ProgramMicrocycle
	findOptions := options.Find().SetSort(bson.D{{Key: "weekNumber", Value: 1}})

	cursor, err := r.microcycles.Find(ctx, bson.M{"phaseId": phaseID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &cycles); err != nil {
		return nil, err
	}
	return cycles, nil
}

// === Workouts ===

func (r *mongoProgramRepository) InsertWorkout(ctx context.Context, w *domain.ProgramWorkout) (primitive.ObjectID, error) {
	w.ID = primitive.NewObjectID()
	w.CreatedAt = time.Now().UTC()

	result, err := r.workouts.InsertOne(ctx, w)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoProgramRepository) GetWorkoutsByMicrocycleID(ctx context.Context, microcycleID primitive.ObjectID) ([]domain.ProgramWorkout, error) {
	var workouts []domain.ProgramWorkout
	findOptions := options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}})

	cursor, err := r.workouts.Find(ctx, bson.M{"microcycleId": microcycleID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// === Workout exercises ===

func (r *mongoProgramRepository) InsertWorkoutExercise(ctx context.Context, we *domain.ProgramWorkoutExercise) (primitive.ObjectID, error) {
	we.ID = primitive.NewObjectID()
	we.CreatedAt = time.Now().UTC()

	result, err := r.workoutExercises.InsertOne(ctx, we)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoProgramRepository) GetExercisesByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.ProgramWorkoutExercise, error) {
	var exercises []domain.ProgramWorkoutExercise
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.workoutExercises.Find(ctx, bson.M{"workoutId": workoutID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// EnsureProgramIndexes creates necessary indexes for the template tree.
func EnsureProgramIndexes(ctx context.Context, db *mongo.Database) {
	_, _ = db.Collection(phaseCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "programId", Value: 1}, {Key: "phaseNumber", Value: 1}},
	})
	_, _ = db.Collection(microcycleCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "phaseId", Value: 1}},
	})
	_, _ = db.Collection(programWorkoutCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "microcycleId", Value: 1}},
	})
	_, _ = db.Collection(workoutExerciseCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workoutId", Value: 1}},
	})
	// programId indexes back the reseed deletes on the tree collections.
	for _, name := range []string{microcycleCollectionName, programWorkoutCollectionName, workoutExerciseCollectionName} {
		_, _ = db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "programId", Value: 1}},
		})
	}
}
