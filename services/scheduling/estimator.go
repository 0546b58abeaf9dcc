package scheduling

import (
	"time"

	"trimly/models"
)

// SimulatedEntry is one active booking with its forward-simulated start and
// completion, as used for display.
type SimulatedEntry struct {
	Booking  models.Booking
	Position int // 1-based index in the time-ordered active list
	StartsAt time.Time
	EndsAt   time.Time
}

// QueueEstimate is the read-only queue picture for one employee at `now`.
type QueueEstimate struct {
	QueueLength          int
	EstimatedWaitMinutes int
	Serving              *models.Booking // the in_service booking, if any
	Entries              []SimulatedEntry
}

// EstimateQueue runs the same forward simulation as AllocateSlot over the
// employee's active bookings, but read-only: it computes when each booking
// would start and complete if nothing else changes, so displayed estimates
// always agree with what the allocator would actually do next.
//
// An in_service booking that has run past its recorded end is assumed to end
// no earlier than now, which keeps waits accurate when services run long.
func EstimateQueue(active []models.Booking, now time.Time, buffer time.Duration) QueueEstimate {
	est := QueueEstimate{QueueLength: len(active)}
	if len(active) == 0 {
		return est
	}

	cursor := now.Add(buffer)
	var queueEnd time.Time

	for i := range active {
		b := active[i]
		entry := SimulatedEntry{Booking: b, Position: i + 1}

		if b.Status == models.StatusInService {
			entry.StartsAt = b.JoinTime
			entry.EndsAt = b.EndTime
			if entry.EndsAt.Before(now) {
				entry.EndsAt = now // running long
			}
			est.Serving = &active[i]
		} else {
			entry.StartsAt = b.JoinTime
			if cursor.After(entry.StartsAt) {
				entry.StartsAt = cursor
			}
			entry.EndsAt = entry.StartsAt.Add(b.Duration())
		}

		cursor = entry.EndsAt.Add(buffer)
		queueEnd = entry.EndsAt
		est.Entries = append(est.Entries, entry)
	}

	wait := queueEnd.Sub(now)
	if wait < 0 {
		wait = 0
	}
	est.EstimatedWaitMinutes = ceilMinutes(wait)
	return est
}

// StatusLine derives the employee's display status from the estimate.
func (q QueueEstimate) StatusLine(servingName string) string {
	switch {
	case q.Serving != nil:
		if servingName == "" {
			servingName = "a customer"
		}
		return "Serving " + servingName
	case q.QueueLength > 0:
		return "Ready for next customer"
	default:
		return "Available"
	}
}

// PositionOf returns the 1-based queue position of a customer's booking, or 0
// if the customer holds no active booking in the list.
func (q QueueEstimate) PositionOf(customerID string) int {
	for _, e := range q.Entries {
		if e.Booking.CustomerID == customerID {
			return e.Position
		}
	}
	return 0
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	mins := int(d / time.Minute)
	if d%time.Minute != 0 {
		mins++
	}
	return mins
}
