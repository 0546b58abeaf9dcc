package scheduling

import (
	"testing"
	"time"

	"trimly/models"
)

func TestComputeCascadeShiftsEveryoneUp(t *testing.T) {
	// Cancelling a 30-minute booking frees 30 minutes for b and c.
	cancelled := mkBooking("x", models.StatusBooked, at(25), at(55))
	anchor := mkBooking("a", models.StatusInService, at(-10), at(20))
	downstream := []models.Booking{
		mkBooking("b", models.StatusBooked, at(60), at(90)),
		mkBooking("c", models.StatusBooked, at(95), at(115)),
	}

	shifts := ComputeCascade(cancelled, &anchor, downstream, tBase, 5*time.Minute)

	if len(shifts) != 2 {
		t.Fatalf("shifts = %d, want 2", len(shifts))
	}
	if !shifts[0].NewJoinTime.Equal(at(30)) {
		t.Errorf("b new join = %v, want %v", shifts[0].NewJoinTime, at(30))
	}
	if !shifts[1].NewJoinTime.Equal(at(65)) {
		t.Errorf("c new join = %v, want %v", shifts[1].NewJoinTime, at(65))
	}
	if got := shifts[0].SavedMinutes(); got != 30 {
		t.Errorf("b saved = %d, want 30", got)
	}
}

func TestComputeCascadeClampsToAnchor(t *testing.T) {
	// Legacy rows scheduled back-to-back without a gap: the shift lands b
	// exactly one buffer after the anchor's end, never earlier.
	cancelled := mkBooking("x", models.StatusBooked, at(25), at(95))
	anchor := mkBooking("a", models.StatusInService, at(-10), at(20))
	downstream := []models.Booking{
		mkBooking("b", models.StatusBooked, at(95), at(125)),
	}

	shifts := ComputeCascade(cancelled, &anchor, downstream, tBase, 5*time.Minute)

	if len(shifts) != 1 {
		t.Fatalf("shifts = %d, want 1", len(shifts))
	}
	if !shifts[0].NewJoinTime.Equal(at(25)) {
		t.Errorf("b new join = %v, want %v (anchor end + buffer)", shifts[0].NewJoinTime, at(25))
	}
}

func TestComputeCascadeNeverBeforeNowPlusBuffer(t *testing.T) {
	// No anchor: the overdue head of the queue was cancelled. The first
	// downstream booking cannot start before now+buffer.
	cancelled := mkBooking("x", models.StatusBooked, at(-10), at(20))
	downstream := []models.Booking{
		mkBooking("b", models.StatusBooked, at(25), at(55)),
	}

	shifts := ComputeCascade(cancelled, nil, downstream, tBase, 5*time.Minute)

	if len(shifts) != 1 {
		t.Fatalf("shifts = %d, want 1", len(shifts))
	}
	if !shifts[0].NewJoinTime.Equal(at(5)) {
		t.Errorf("b new join = %v, want %v (now + buffer)", shifts[0].NewJoinTime, at(5))
	}
}

func TestComputeCascadePreservesOrderAndSpacing(t *testing.T) {
	cancelled := mkBooking("x", models.StatusBooked, at(25), at(45))
	downstream := []models.Booking{
		mkBooking("b", models.StatusBooked, at(50), at(80)),
		mkBooking("c", models.StatusBooked, at(85), at(105)),
		mkBooking("d", models.StatusBooked, at(110), at(140)),
	}
	buffer := 5 * time.Minute

	shifts := ComputeCascade(cancelled, nil, downstream, tBase, buffer)

	if len(shifts) != len(downstream) {
		t.Fatalf("shifts = %d, want %d", len(shifts), len(downstream))
	}
	for i := 1; i < len(shifts); i++ {
		prevEnd := shifts[i-1].NewEndTime
		if shifts[i].NewJoinTime.Before(prevEnd.Add(buffer)) {
			t.Errorf("shift %d starts %v, closer than buffer to previous end %v",
				i, shifts[i].NewJoinTime, prevEnd)
		}
	}
	for i, s := range shifts {
		if s.NewJoinTime.After(downstream[i].JoinTime) {
			t.Errorf("shift %d moved later: %v -> %v", i, downstream[i].JoinTime, s.NewJoinTime)
		}
	}
}

func TestComputeCascadeTailCancellation(t *testing.T) {
	// Cancelling the last booking of the day moves nothing.
	cancelled := mkBooking("x", models.StatusBooked, at(60), at(90))
	anchor := mkBooking("a", models.StatusBooked, at(25), at(55))

	shifts := ComputeCascade(cancelled, &anchor, nil, tBase, 5*time.Minute)

	if len(shifts) != 0 {
		t.Fatalf("shifts = %d, want 0: %+v", len(shifts), shifts)
	}
}

func TestShiftNotifiable(t *testing.T) {
	mk := func(oldMin, newMin int) models.RescheduleShift {
		return models.RescheduleShift{
			OldJoinTime: at(oldMin),
			NewJoinTime: at(newMin),
		}
	}

	cases := []struct {
		name  string
		shift models.RescheduleShift
		want  bool
	}{
		{"big improvement", mk(60, 30), true},
		{"tiny improvement far out", mk(60, 57), false},
		{"crosses threshold", mk(12, 9), true},
		{"small and still above threshold", mk(40, 37), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := shiftNotifiable(c.shift, tBase, 5, 10); got != c.want {
				t.Errorf("notifiable = %v, want %v", got, c.want)
			}
		})
	}
}
