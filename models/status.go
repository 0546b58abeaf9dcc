package models

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusInService BookingStatus = "in_service"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses are the states that occupy timeline space.
var ActiveStatuses = []BookingStatus{StatusBooked, StatusInService}

// IsValid reports whether s is one of the four known states.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusInService, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status counts toward an employee's queue.
func (s BookingStatus) IsActive() bool {
	return s == StatusBooked || s == StatusInService
}

// IsTerminal reports whether no further transition may leave this state.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether the status machine allows moving to target.
// Transitions are monotonic: booked → in_service → completed, booked → cancelled,
// in_service → completed. Nothing leaves a terminal state.
func (s BookingStatus) CanTransition(target BookingStatus) bool {
	switch s {
	case StatusBooked:
		return target == StatusInService || target == StatusCancelled
	case StatusInService:
		return target == StatusCompleted
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}
