package scheduling

import (
	"context"
	"time"

	"trimly/models"
)

// CreateBookingRequest is the input to CreateBooking. CustomerID may be the
// walk-in sentinel when the shop books for an anonymous walk-in.
type CreateBookingRequest struct {
	ShopID     string   `json:"shop_id"`
	EmployeeID string   `json:"employee_id"`
	CustomerID string   `json:"customer_id"`
	ServiceIDs []string `json:"service_ids"`
}

// CancelBookingRequest identifies the booking and who is asking. Exactly one
// of CustomerID/ShopID must be set; the requester must own the booking.
type CancelBookingRequest struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id,omitempty"`
	ShopID     string `json:"shop_id,omitempty"`
}

// SchedulingService is the scheduling core's public surface, wrapped by any
// transport.
type SchedulingService interface {
	// CreateBooking allocates a slot on the employee's timeline and persists
	// the booking, returning it with queue position and display times.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.BookingReceipt, error)

	// CancelBooking marks the booking cancelled and cascades every later
	// active booking of that employee earlier by the freed duration. The call
	// returns only after the full cascade is persisted.
	CancelBooking(ctx context.Context, req CancelBookingRequest) (*models.Booking, error)

	// ShopQueue returns the live queue view for every employee of a shop.
	ShopQueue(ctx context.Context, shopID string) (*models.QueueView, error)

	// EmployeeQueue returns the live queue view for one employee.
	EmployeeQueue(ctx context.Context, employeeID string) (*models.QueueView, error)

	// Tick runs one status reconciliation pass. Idempotent for a fixed now.
	Tick(ctx context.Context, now time.Time) (TickSummary, error)
}
