package service

import (
	"context"
	"log/slog"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/metrics"
	"massimino/fitness-platform/internal/push"
	"massimino/fitness-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier sends best-effort push notifications to a user's registered
// devices. Calls never block the caller and never surface errors: a failed
// delivery is logged and recorded, nothing more.
type Notifier interface {
	NotifySessionScheduled(athleteID primitive.ObjectID, sessionTitle string)
	NotifyProgramAssigned(athleteID primitive.ObjectID, programName string)
}

const notifyTimeout = 30 * time.Second

type pushNotifier struct {
	userRepo     repository.UserRepository
	deliveryRepo repository.PushDeliveryRepository
	client       *push.Client
	enabled      bool
	logger       *slog.Logger
}

// NewNotifier creates a push-backed Notifier. With enabled false every call
// is a no-op, which keeps local development quiet without stubbing.
func NewNotifier(
	userRepo repository.UserRepository,
	deliveryRepo repository.PushDeliveryRepository,
	client *push.Client,
	enabled bool,
	logger *slog.Logger,
) Notifier {
	return &pushNotifier{
		userRepo:     userRepo,
		deliveryRepo: deliveryRepo,
		client:       client,
		enabled:      enabled,
		logger:       logger,
	}
}

func (n *pushNotifier) NotifySessionScheduled(athleteID primitive.ObjectID, sessionTitle string) {
	n.dispatch(athleteID, "New workout scheduled", sessionTitle, map[string]string{"type": "session_scheduled"})
}

func (n *pushNotifier) NotifyProgramAssigned(athleteID primitive.ObjectID, programName string) {
	n.dispatch(athleteID, "New program assigned", programName, map[string]string{"type": "program_assigned"})
}

// dispatch fans the message out to every device token the user has
// registered. It runs in its own goroutine with a fresh context so the
// originating request can complete independently.
func (n *pushNotifier) dispatch(userID primitive.ObjectID, title, body string, data map[string]string) {
	if !n.enabled || n.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		user, err := n.userRepo.GetByID(ctx, userID)
		if err != nil {
			n.logger.Warn("push skipped, user lookup failed", "user", userID.Hex(), "error", err)
			return
		}
		if len(user.DeviceTokens) == 0 {
			return
		}

		for _, token := range user.DeviceTokens {
			n.sendOne(ctx, userID, token, title, body, data)
		}
	}()
}

func (n *pushNotifier) sendOne(ctx context.Context, userID primitive.ObjectID, token, title, body string, data map[string]string) {
	msg := push.Message{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
	}

	delivery := &domain.PushDelivery{
		UserID:      userID,
		DeviceToken: token,
		Title:       title,
		Body:        body,
		Status:      domain.DeliverySent,
		AttemptedAt: time.Now().UTC(),
	}

	if err := n.client.Send(ctx, msg); err != nil {
		delivery.Status = domain.DeliveryFailed
		delivery.Error = err.Error()
		metrics.PushDeliveriesTotal.WithLabelValues(metrics.PushFailed).Inc()
		n.logger.Warn("push delivery failed", "user", userID.Hex(), "error", err)
	} else {
		metrics.PushDeliveriesTotal.WithLabelValues(metrics.PushSent).Inc()
	}

	if _, err := n.deliveryRepo.Create(ctx, delivery); err != nil {
		n.logger.Warn("failed to record push delivery", "user", userID.Hex(), "error", err)
	}
}
