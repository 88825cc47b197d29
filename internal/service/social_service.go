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
	ErrUserNotFound         = errors.New("user not found")
	ErrPlatformNotConnected = errors.New("platform not connected")
)

// ShareSender posts a message to an external platform on the user's behalf.
// Implementations are expected to be unreliable; the social service treats
// every send as best-effort.
type ShareSender interface {
	Share(ctx context.Context, conn domain.SocialConnection, message string) error
}

// --- Service Interface ---
type SocialService interface {
	// Connect stores a platform's token blob on the user record,
	// replacing any previous connection for that platform.
	Connect(ctx context.Context, userID primitive.ObjectID, conn domain.SocialConnection) error
	Disconnect(ctx context.Context, userID primitive.ObjectID, platform string) error
	ListConnections(ctx context.Context, userID primitive.ObjectID) ([]domain.SocialConnection, error)

	// Share posts to a connected platform. Moderation can reject the text;
	// outbound delivery failures are swallowed.
	Share(ctx context.Context, userID primitive.ObjectID, platform, message string) error
}

// --- Service Implementation ---

type socialService struct {
	userRepo  repository.UserRepository
	sender    ShareSender
	moderator *Moderator
	logger    *slog.Logger
}

// NewSocialService creates a new instance of socialService. A nil sender
// turns Share into a logged no-op.
func NewSocialService(userRepo repository.UserRepository, sender ShareSender, moderator *Moderator, logger *slog.Logger) SocialService {
	return &socialService{
		userRepo:  userRepo,
		sender:    sender,
		moderator: moderator,
		logger:    logger,
	}
}

func (s *socialService) Connect(ctx context.Context, userID primitive.ObjectID, conn domain.SocialConnection) error {
	if _, err := s.lookupUser(ctx, userID); err != nil {
		return err
	}
	conn.ConnectedAt = time.Now().UTC()
	return s.userRepo.SetSocialConnection(ctx, userID, conn)
}

func (s *socialService) Disconnect(ctx context.Context, userID primitive.ObjectID, platform string) error {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := user.SocialConnections[platform]; !ok {
		return ErrPlatformNotConnected
	}
	return s.userRepo.RemoveSocialConnection(ctx, userID, platform)
}

func (s *socialService) ListConnections(ctx context.Context, userID primitive.ObjectID) ([]domain.SocialConnection, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	conns := make([]domain.SocialConnection, 0, len(user.SocialConnections))
	for _, conn := range user.SocialConnections {
		conns = append(conns, conn)
	}
	return conns, nil
}

// Share moderates the text, then hands it to the sender. A sender failure
// is logged and reported as success: the user's action already happened.
func (s *socialService) Share(ctx context.Context, userID primitive.ObjectID, platform, message string) error {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return err
	}
	conn, ok := user.SocialConnections[platform]
	if !ok {
		return ErrPlatformNotConnected
	}

	if err := s.moderator.Review(ctx, message); err != nil {
		return err
	}

	if s.sender == nil {
		s.logger.Info("share skipped, no sender configured", "platform", platform)
		return nil
	}
	if err := s.sender.Share(ctx, conn, message); err != nil {
		s.logger.Warn("share delivery failed",
			"user", userID.Hex(), "platform", platform, "error", err)
	}
	return nil
}

func (s *socialService) lookupUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
