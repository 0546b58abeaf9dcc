package scheduling

import (
	"testing"
	"time"

	"trimly/models"
)

var tBase = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func mkBooking(id string, status models.BookingStatus, join, end time.Time) models.Booking {
	return models.Booking{
		ID:              id,
		ShopID:          "shop-1",
		EmployeeID:      "emp-1",
		CustomerID:      "cust-" + id,
		DurationMinutes: int(end.Sub(join) / time.Minute),
		JoinTime:        join,
		EndTime:         end,
		Status:          status,
	}
}

func at(min int) time.Time { return tBase.Add(time.Duration(min) * time.Minute) }

func TestAllocateSlotEmptyTimeline(t *testing.T) {
	slot := AllocateSlot(nil, 30*time.Minute, tBase, 5*time.Minute)

	if !slot.JoinTime.Equal(at(5)) {
		t.Errorf("join = %v, want %v", slot.JoinTime, at(5))
	}
	if !slot.EndTime.Equal(at(35)) {
		t.Errorf("end = %v, want %v", slot.EndTime, at(35))
	}
	if slot.Status != models.StatusBooked {
		t.Errorf("status = %q, want %q", slot.Status, models.StatusBooked)
	}
}

func TestAllocateSlotAppendsAfterLast(t *testing.T) {
	active := []models.Booking{
		mkBooking("a", models.StatusInService, at(-10), at(20)),
		mkBooking("b", models.StatusBooked, at(25), at(55)),
	}

	slot := AllocateSlot(active, 30*time.Minute, tBase, 5*time.Minute)

	if !slot.JoinTime.Equal(at(60)) {
		t.Errorf("join = %v, want %v", slot.JoinTime, at(60))
	}
	if !slot.EndTime.Equal(at(90)) {
		t.Errorf("end = %v, want %v", slot.EndTime, at(90))
	}
}

func TestAllocateSlotFillsGapWithBufferBothSides(t *testing.T) {
	// Gap between a (ends +20) and b (starts +70): fits a 30-minute service
	// at +25 ending +55, leaving 15 minutes before b.
	active := []models.Booking{
		mkBooking("a", models.StatusBooked, at(5), at(20)),
		mkBooking("b", models.StatusBooked, at(70), at(100)),
	}

	slot := AllocateSlot(active, 30*time.Minute, tBase, 5*time.Minute)

	if !slot.JoinTime.Equal(at(25)) {
		t.Errorf("join = %v, want %v", slot.JoinTime, at(25))
	}
}

func TestAllocateSlotRejectsTightGap(t *testing.T) {
	// Gap of exactly the duration between end+buffer and next start leaves no
	// room for the trailing buffer, so the booking must go after b.
	active := []models.Booking{
		mkBooking("a", models.StatusBooked, at(5), at(20)),
		mkBooking("b", models.StatusBooked, at(55), at(85)),
	}

	slot := AllocateSlot(active, 30*time.Minute, tBase, 5*time.Minute)

	if !slot.JoinTime.Equal(at(90)) {
		t.Errorf("join = %v, want %v", slot.JoinTime, at(90))
	}
}

func TestAllocateSlotGapExactFit(t *testing.T) {
	// end(a)+buffer = +25, start +25 + 30 + 5 = +60 = start(b): exact fit.
	active := []models.Booking{
		mkBooking("a", models.StatusBooked, at(5), at(20)),
		mkBooking("b", models.StatusBooked, at(60), at(90)),
	}

	slot := AllocateSlot(active, 30*time.Minute, tBase, 5*time.Minute)

	if !slot.JoinTime.Equal(at(25)) {
		t.Errorf("join = %v, want %v", slot.JoinTime, at(25))
	}
	if !slot.EndTime.Equal(at(55)) {
		t.Errorf("end = %v, want %v", slot.EndTime, at(55))
	}
}

func TestAllocateSlotInServiceRunningLong(t *testing.T) {
	// The current service was due to end in the past relative to its record
	// but the allocator trusts the stored end_time plus buffer.
	active := []models.Booking{
		mkBooking("a", models.StatusInService, at(-40), at(10)),
	}

	slot := AllocateSlot(active, 20*time.Minute, tBase, 5*time.Minute)

	if !slot.JoinTime.Equal(at(15)) {
		t.Errorf("join = %v, want %v", slot.JoinTime, at(15))
	}
}

func TestAllocateSlotDeterministic(t *testing.T) {
	active := []models.Booking{
		mkBooking("a", models.StatusBooked, at(5), at(25)),
		mkBooking("b", models.StatusBooked, at(60), at(80)),
		mkBooking("c", models.StatusBooked, at(120), at(150)),
	}

	first := AllocateSlot(active, 25*time.Minute, tBase, 5*time.Minute)
	for i := 0; i < 10; i++ {
		again := AllocateSlot(active, 25*time.Minute, tBase, 5*time.Minute)
		if !again.JoinTime.Equal(first.JoinTime) || !again.EndTime.Equal(first.EndTime) {
			t.Fatalf("run %d: slot %+v differs from first %+v", i, again, first)
		}
	}
}

func TestAllocateSlotNeverOverlaps(t *testing.T) {
	active := []models.Booking{
		mkBooking("a", models.StatusInService, at(-5), at(15)),
		mkBooking("b", models.StatusBooked, at(30), at(50)),
		mkBooking("c", models.StatusBooked, at(55), at(70)),
	}
	buffer := 5 * time.Minute

	for _, dur := range []time.Duration{10, 20, 35, 60} {
		slot := AllocateSlot(active, dur*time.Minute, tBase, buffer)
		for _, b := range active {
			if slot.JoinTime.Before(b.EndTime.Add(buffer)) && b.JoinTime.Before(slot.EndTime.Add(buffer)) {
				t.Errorf("duration %v: slot [%v,%v] violates buffer against %s [%v,%v]",
					dur, slot.JoinTime, slot.EndTime, b.ID, b.JoinTime, b.EndTime)
			}
		}
	}
}

func TestAllocateSlotImmediateWithZeroBuffer(t *testing.T) {
	slot := AllocateSlot(nil, 15*time.Minute, tBase, 0)

	if !slot.JoinTime.Equal(tBase) {
		t.Errorf("join = %v, want %v", slot.JoinTime, tBase)
	}
	if slot.Status != models.StatusInService {
		t.Errorf("status = %q, want %q", slot.Status, models.StatusInService)
	}
}
