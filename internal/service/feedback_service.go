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

var ErrFeedbackEmpty = errors.New("feedback message cannot be empty")

// --- Service Interface ---
type FeedbackService interface {
	// Submit stores a feedback entry after content moderation.
	Submit(ctx context.Context, userID primitive.ObjectID, fb *domain.Feedback) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// --- Service Implementation ---

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	statsRepo    repository.StatsRepository
	moderator    *Moderator
	logger       *slog.Logger
}

// NewFeedbackService creates a new instance of feedbackService.
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	statsRepo repository.StatsRepository,
	moderator *Moderator,
	logger *slog.Logger,
) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		statsRepo:    statsRepo,
		moderator:    moderator,
		logger:       logger,
	}
}

func (s *feedbackService) Submit(ctx context.Context, userID primitive.ObjectID, fb *domain.Feedback) (*domain.Feedback, error) {
	if fb.Message == "" {
		return nil, ErrFeedbackEmpty
	}
	if err := s.moderator.Review(ctx, fb.Subject+" "+fb.Message); err != nil {
		return nil, err
	}

	fb.UserID = userID
	fb.CreatedAt = time.Now().UTC()
	id, err := s.feedbackRepo.Create(ctx, fb)
	if err != nil {
		return nil, err
	}
	fb.ID = id

	s.logger.Info("feedback submitted", "user", userID.Hex(), "rating", fb.Rating)
	return fb, nil
}

func (s *feedbackService) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.feedbackRepo.List(ctx)
}

func (s *feedbackService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return s.statsRepo.Snapshot(ctx)
}
