package bookingRepo

import (
	"context"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository is the durable, transactional record of bookings. It owns
// no scheduling logic; callers read an employee's timeline and write back
// inside WithTransaction so the read-then-write is atomic.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)

	// ActiveByEmployee returns the employee's bookings with status booked or
	// in_service, ordered by join_time ascending (the employee timeline).
	ActiveByEmployee(ctx context.Context, employeeID string) ([]models.Booking, error)

	// HasActiveSameDay reports whether the customer already holds an active
	// booking with the employee inside [dayStart, dayEnd).
	HasActiveSameDay(ctx context.Context, employeeID, customerID string, dayStart, dayEnd time.Time) (bool, error)

	// DownstreamOf returns active bookings whose join_time is at or after the
	// given instant, ordered by join_time ascending.
	DownstreamOf(ctx context.Context, employeeID string, from time.Time) ([]models.Booking, error)

	// AnchorBefore returns the latest booking (active or completed) whose
	// end_time is strictly before the given instant, or nil if none exists.
	AnchorBefore(ctx context.Context, employeeID string, before time.Time) (*models.Booking, error)

	// DueForService returns booked bookings whose join_time has passed.
	// employeeID narrows the scan to one timeline; empty means all employees.
	DueForService(ctx context.Context, employeeID string, now time.Time) ([]models.Booking, error)

	// DueForCompletion returns in_service bookings whose end_time has passed.
	DueForCompletion(ctx context.Context, employeeID string, now time.Time) ([]models.Booking, error)

	// UpdateTimes rewrites a booking's join_time/end_time (cascade moves).
	UpdateTimes(ctx context.Context, bookingID string, joinTime, endTime, now time.Time) error

	// TransitionStatus atomically moves a booking from one status to another.
	// Returns false without error when the booking was no longer in `from`
	// (a concurrent pass already advanced it).
	TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, now time.Time) (bool, error)

	// WithTransaction runs fn inside a single Mongo session transaction.
	WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error

	EnsureIndexes() error
}
