package scheduling

import (
	"time"

	"trimly/models"
)

// ComputeCascade plans the downstream shifts after a cancellation frees
// cancelled.Duration() minutes on the employee's timeline.
//
// anchor is the latest active-or-completed booking ending before the
// cancelled booking's end (nil when the cancelled booking led the timeline);
// downstream holds the active bookings with join_time at or after the
// cancelled booking's end_time, ordered ascending. The computation is pure;
// persisting the shifts is the caller's job, inside the same transaction that
// marked the cancellation.
//
// Each downstream booking moves earlier by at most the freed duration, never
// before now+buffer, and never closer than one buffer to its (possibly
// already-shifted) predecessor.
func ComputeCascade(cancelled models.Booking, anchor *models.Booking, downstream []models.Booking, now time.Time, buffer time.Duration) []models.RescheduleShift {
	cursor := now.Add(buffer)
	if anchor != nil {
		if after := anchor.EndTime.Add(buffer); after.After(cursor) {
			cursor = after
		}
	}

	freed := cancelled.Duration()

	var shifts []models.RescheduleShift
	for _, b := range downstream {
		candidate := b.JoinTime.Add(-freed)
		if candidate.Before(cursor) {
			candidate = cursor
		}
		newEnd := candidate.Add(b.Duration())

		if !candidate.Equal(b.JoinTime) || !newEnd.Equal(b.EndTime) {
			shifts = append(shifts, models.RescheduleShift{
				BookingID:   b.ID,
				CustomerID:  b.CustomerID,
				OldJoinTime: b.JoinTime,
				NewJoinTime: candidate,
				NewEndTime:  newEnd,
			})
		}

		cursor = newEnd.Add(buffer)
	}
	return shifts
}

// shiftNotifiable decides whether a shifted customer should be pushed a
// "your turn moved up" notification. The thresholds are presentation
// heuristics, configurable rather than hard-coded: notify when the wait
// improves by at least minImprovement minutes, or when the new wait crosses
// below waitThreshold minutes from at or above it.
func shiftNotifiable(shift models.RescheduleShift, now time.Time, minImprovement, waitThreshold int) bool {
	if shift.SavedMinutes() >= minImprovement {
		return true
	}
	oldWait := ceilMinutes(shift.OldJoinTime.Sub(now))
	newWait := ceilMinutes(shift.NewJoinTime.Sub(now))
	return oldWait >= waitThreshold && newWait < waitThreshold
}
