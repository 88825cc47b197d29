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
	sessionCollectionName  = "workout_sessions"
	logEntryCollectionName = "session_log_entries"
)

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	sessions   *mongo.Collection
	logEntries *mongo.Collection
}

// NewMongoSessionRepository creates a new session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		sessions:   db.Collection(sessionCollectionName),
		logEntries: db.Collection(logEntryCollectionName),
	}
}

// CreateSession inserts a new workout session.
func (r *mongoSessionRepository) CreateSession(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.AthleteID == primitive.NilObjectID || session.Title == "" {
		return primitive.NilObjectID, errors.New("athlete ID and title are required")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.sessions.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetSessionByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetSessionByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetSessionsByAthlete retrieves an athlete's sessions, newest first.
func (r *mongoSessionRepository) GetSessionsByAthlete(ctx context.Context, athleteID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	var sessions []domain.WorkoutSession
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.sessions.Find(ctx, bson.M{"athleteId": athleteID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CompleteSession stamps a session's completedAt.
func (r *mongoSessionRepository) CompleteSession(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"completedAt": now, "updatedAt": now}}
	result, err := r.sessions.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateLogEntry inserts one performed-set record.
func (r *mongoSessionRepository) CreateLogEntry(ctx context.Context, entry *domain.SessionLogEntry) (primitive.ObjectID, error) {
	if entry.SessionID == primitive.NilObjectID || entry.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session ID and exercise ID are required")
	}

	entry.ID = primitive.NewObjectID()
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}

	result, err := r.logEntries.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// GetLogEntriesBySession retrieves a session's log in set order.
func (r *mongoSessionRepository) GetLogEntriesBySession(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionLogEntry, error) {
	var entries []domain.SessionLogEntry
	findOptions := options.Find().SetSort(bson.D{{Key: "loggedAt", Value: 1}})

	cursor, err := r.logEntries.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureSessionIndexes creates necessary indexes for sessions and log entries.
func EnsureSessionIndexes(ctx context.Context, db *mongo.Database) {
	_, _ = db.Collection(sessionCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "athleteId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	_, _ = db.Collection(logEntryCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sessionId", Value: 1}},
	})
}
