package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryStatus is the outcome of one push delivery attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

// PushDelivery records one push notification attempt to one device.
// Deliveries are best-effort: failures are recorded here and never
// propagated to the triggering request.
type PushDelivery struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	DeviceToken string             `bson:"deviceToken" json:"deviceToken"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body,omitempty" json:"body,omitempty"`
	Status      DeliveryStatus     `bson:"status" json:"status"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	AttemptedAt time.Time          `bson:"attemptedAt" json:"attemptedAt"`
}
