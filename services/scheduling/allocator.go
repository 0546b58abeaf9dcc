package scheduling

import (
	"time"

	"trimly/models"
)

// Slot is a computed allocation on an employee's timeline.
type Slot struct {
	JoinTime time.Time
	EndTime  time.Time
	Status   models.BookingStatus
}

// AllocateSlot computes the earliest feasible start for a new booking of the
// requested duration against the employee's active bookings, honoring the
// inter-booking buffer on both sides.
//
// active must be the employee's booked/in_service bookings ordered by
// join_time ascending, exactly as read inside the caller's transaction.
// AllocateSlot is a pure function: identical inputs always yield the same
// slot (first-fit: the earliest gap in time order wins, even when a later
// gap would pack tighter).
func AllocateSlot(active []models.Booking, duration time.Duration, now time.Time, buffer time.Duration) Slot {
	cursor := now.Add(buffer)

	// An in-progress service anchors the earliest possible next start.
	if len(active) > 0 && active[0].Status == models.StatusInService {
		if next := active[0].EndTime.Add(buffer); next.After(cursor) {
			cursor = next
		}
	}

	joined := false
	var joinTime time.Time
	for _, b := range active {
		// A gap only counts if the new booking ends at least one buffer
		// before the next booking starts.
		if !cursor.Add(duration + buffer).After(b.JoinTime) {
			joinTime = cursor
			joined = true
			break
		}
		if next := b.EndTime.Add(buffer); next.After(cursor) {
			cursor = next
		}
	}
	if !joined {
		joinTime = cursor
	}

	status := models.StatusBooked
	if !joinTime.After(now) {
		status = models.StatusInService
	}

	return Slot{
		JoinTime: joinTime,
		EndTime:  joinTime.Add(duration),
		Status:   status,
	}
}
