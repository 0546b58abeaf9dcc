package models

import "time"

// PushTarget identifies who a push payload is addressed to.
type PushTarget string

const (
	TargetCustomer PushTarget = "customer"
	TargetShop     PushTarget = "shop"
)

// Push notification types emitted by the scheduling core.
const (
	NotifyBookingCreated  = "booking_created"
	NotifyBookingShifted  = "booking_shifted"
	NotifyServiceStarted  = "service_started"
	NotifyServiceComplete = "service_completed"
	NotifyBookingMissed   = "booking_missed"
	NotifyBookingCancel   = "booking_cancelled"
)

// PushPayload is the structured message handed to the notification trigger.
// Delivery is best-effort and happens after the scheduling transaction commits.
type PushPayload struct {
	TargetKind PushTarget `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	URL        string     `json:"url,omitempty"`
	BookingID  string     `json:"booking_id"`
	Type       string     `json:"type"`
}

// Notification is the persisted copy of a push, so clients can list history.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	TargetID  string    `bson:"target_id" json:"targetId"`
	Kind      string    `bson:"kind" json:"kind"` // "customer" or "shop"
	Type      string    `bson:"type" json:"type"`
	Title     string    `bson:"title" json:"title"`
	Body      string    `bson:"body" json:"body"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	Sent      bool      `bson:"sent" json:"sent"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
