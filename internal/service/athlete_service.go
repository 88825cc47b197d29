package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionInactive = errors.New("subscription is not active")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAccessDenied  = errors.New("session does not belong to this athlete")
	ErrProgramNotPublic     = errors.New("program is not open for subscription")
)

// --- Service Interface ---
type AthleteService interface {
	// Subscribe enrolls the athlete in a public active program at week 1, day 1.
	Subscribe(ctx context.Context, athleteID, programID primitive.ObjectID) (*domain.ProgramSubscription, error)
	ListSubscriptions(ctx context.Context, athleteID primitive.ObjectID) ([]domain.ProgramSubscription, error)

	// AdvanceSubscription moves the athlete one training day forward, rolling
	// over into the next week when the current one is exhausted, and
	// recomputes overall progress.
	AdvanceSubscription(ctx context.Context, athleteID, subscriptionID primitive.ObjectID) (*domain.ProgramSubscription, error)

	// Session log
	ListSessions(ctx context.Context, athleteID primitive.ObjectID) ([]domain.WorkoutSession, error)
	GetSession(ctx context.Context, athleteID, sessionID primitive.ObjectID) (*domain.WorkoutSession, []domain.SessionLogEntry, error)
	LogSet(ctx context.Context, athleteID primitive.ObjectID, entry *domain.SessionLogEntry) (*domain.SessionLogEntry, error)
	CompleteSession(ctx context.Context, athleteID, sessionID primitive.ObjectID) error
}

// --- Service Implementation ---

type athleteService struct {
	programRepo repository.ProgramRepository
	subRepo     repository.SubscriptionRepository
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
}

// NewAthleteService creates a new instance of athleteService.
func NewAthleteService(
	programRepo repository.ProgramRepository,
	subRepo repository.SubscriptionRepository,
	sessionRepo repository.SessionRepository,
	logger *slog.Logger,
) AthleteService {
	return &athleteService{
		programRepo: programRepo,
		subRepo:     subRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Subscribe enrolls the athlete in a program. Only active public templates
// can be self-subscribed; private clones are subscribed by the cloning flow.
func (s *athleteService) Subscribe(ctx context.Context, athleteID, programID primitive.ObjectID) (*domain.ProgramSubscription, error) {
	program, err := s.programRepo.GetTemplateByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if !program.IsActive || program.Visibility != domain.VisibilityPublic {
		return nil, ErrProgramNotPublic
	}

	now := time.Now().UTC()
	sub := &domain.ProgramSubscription{
		UserID:      athleteID,
		ProgramID:   programID,
		CurrentWeek: 1,
		CurrentDay:  1,
		Progress:    0,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.subRepo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	s.logger.Info("athlete subscribed to program",
		"athlete", athleteID.Hex(), "program", programID.Hex())
	return sub, nil
}

// ListSubscriptions retrieves the athlete's active subscriptions.
func (s *athleteService) ListSubscriptions(ctx context.Context, athleteID primitive.ObjectID) ([]domain.ProgramSubscription, error) {
	return s.subRepo.GetActiveByUser(ctx, athleteID)
}

// AdvanceSubscription moves the cursor one day forward. Week length is taken
// from the program structure (workouts of the current microcycle) and falls
// back to 7 when the week has no structured days. Finishing the last week
// deactivates the subscription with progress pinned at 1.
func (s *athleteService) AdvanceSubscription(ctx context.Context, athleteID, subscriptionID primitive.ObjectID) (*domain.ProgramSubscription, error) {
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.UserID != athleteID {
		return nil, ErrSubscriptionNotFound
	}
	if !sub.IsActive {
		return nil, ErrSubscriptionInactive
	}

	program, err := s.programRepo.GetTemplateByID(ctx, sub.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	daysInWeek := s.daysInWeek(ctx, sub.ProgramID, sub.CurrentWeek)
	sub.CurrentDay++
	if sub.CurrentDay > daysInWeek {
		sub.CurrentDay = 1
		sub.CurrentWeek++
	}

	totalWeeks := program.DurationWeeks
	if totalWeeks < 1 {
		totalWeeks = 1
	}
	if sub.CurrentWeek > totalWeeks {
		sub.CurrentWeek = totalWeeks
		sub.CurrentDay = daysInWeek
		sub.Progress = 1
		sub.IsActive = false
	} else {
		weekFraction := float64(sub.CurrentDay-1) / float64(daysInWeek)
		sub.Progress = (float64(sub.CurrentWeek-1) + weekFraction) / float64(totalWeeks)
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// daysInWeek counts the structured training days of one program week. Any
// lookup failure or an unstructured week yields a calendar week.
func (s *athleteService) daysInWeek(ctx context.Context, programID primitive.ObjectID, week int) int {
	const calendarWeek = 7

	phases, err := s.programRepo.GetPhasesByProgramID(ctx, programID)
	if err != nil {
		return calendarWeek
	}
	for _, phase := range phases {
		if week < phase.StartWeek || week > phase.EndWeek {
			continue
		}
		cycles, err := s.programRepo.GetMicrocyclesByPhaseID(ctx, phase.ID)
		if err != nil {
			return calendarWeek
		}
		for _, mc := range cycles {
			if mc.WeekNumber != week {
				continue
			}
			workouts, err := s.programRepo.GetWorkoutsByMicrocycleID(ctx, mc.ID)
			if err != nil || len(workouts) == 0 {
				return calendarWeek
			}
			return len(workouts)
		}
	}
	return calendarWeek
}

// ListSessions retrieves the athlete's workout sessions.
func (s *athleteService) ListSessions(ctx context.Context, athleteID primitive.ObjectID) ([]domain.WorkoutSession, error) {
	return s.sessionRepo.GetSessionsByAthlete(ctx, athleteID)
}

// GetSession retrieves one of the athlete's sessions together with its
// performed-set log.
func (s *athleteService) GetSession(ctx context.Context, athleteID, sessionID primitive.ObjectID) (*domain.WorkoutSession, []domain.SessionLogEntry, error) {
	session, err := s.ownedSession(ctx, athleteID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.sessionRepo.GetLogEntriesBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, entries, nil
}

// LogSet records one performed set against a session owned by the athlete.
func (s *athleteService) LogSet(ctx context.Context, athleteID primitive.ObjectID, entry *domain.SessionLogEntry) (*domain.SessionLogEntry, error) {
	if _, err := s.ownedSession(ctx, athleteID, entry.SessionID); err != nil {
		return nil, err
	}

	entry.AthleteID = athleteID
	entry.LoggedAt = time.Now().UTC()
	id, err := s.sessionRepo.CreateLogEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return entry, nil
}

// CompleteSession marks a session done and, when the session came from a
// subscribed program, advances the matching subscription.
func (s *athleteService) CompleteSession(ctx context.Context, athleteID, sessionID primitive.ObjectID) error {
	session, err := s.ownedSession(ctx, athleteID, sessionID)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.CompleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if session.ProgramID == nil {
		return nil
	}
	subs, err := s.subRepo.GetActiveByUser(ctx, athleteID)
	if err != nil {
		s.logger.Warn("subscription advance skipped", "session", sessionID.Hex(), "error", err)
		return nil
	}
	for _, sub := range subs {
		if sub.ProgramID != *session.ProgramID {
			continue
		}
		if _, err := s.AdvanceSubscription(ctx, athleteID, sub.ID); err != nil {
			s.logger.Warn("subscription advance failed",
				"subscription", sub.ID.Hex(), "error", err)
		}
		break
	}
	return nil
}

func (s *athleteService) ownedSession(ctx context.Context, athleteID, sessionID primitive.ObjectID) (*domain.WorkoutSession, error) {
	session, err := s.sessionRepo.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.AthleteID != athleteID {
		return nil, ErrSessionAccessDenied
	}
	return session, nil
}
