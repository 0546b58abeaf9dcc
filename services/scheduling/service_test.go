package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"trimly/models"
)

// within reports whether got is inside tolerance of want. Service operations
// read the wall clock, so assertions anchored on test-side time allow slack.
func within(got, want time.Time, tolerance time.Duration) bool {
	diff := got.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func futureBooking(id, customerID string, now time.Time, startMin, endMin int) models.Booking {
	b := mkBooking(id, models.StatusBooked,
		now.Add(time.Duration(startMin)*time.Minute),
		now.Add(time.Duration(endMin)*time.Minute))
	b.CustomerID = customerID
	return b
}

func TestCreateBookingEmptyQueue(t *testing.T) {
	repo := newMemBookingRepo()
	svc, notifier := newTestService(repo)
	now := time.Now().UTC()

	receipt, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-1",
		CustomerID: "cust-1",
		ServiceIDs: []string{"svc-cut"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	b := receipt.Booking
	if !within(b.JoinTime, now.Add(5*time.Minute), 2*time.Second) {
		t.Errorf("join = %v, want ~now+5m", b.JoinTime)
	}
	if b.DurationMinutes != 30 {
		t.Errorf("duration = %d, want 30", b.DurationMinutes)
	}
	if b.Status != models.StatusBooked {
		t.Errorf("status = %q, want booked", b.Status)
	}
	if receipt.QueuePosition != 1 {
		t.Errorf("position = %d, want 1", receipt.QueuePosition)
	}
	if got := notifier.byType(models.NotifyBookingCreated); len(got) == 0 {
		t.Error("expected a booking-created payload")
	}
}

func TestCreateBookingAppendsAfterExisting(t *testing.T) {
	now := time.Now().UTC()
	existing := futureBooking("a", "cust-2", now, 5, 35)
	repo := newMemBookingRepo(existing)
	svc, _ := newTestService(repo)

	receipt, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-1",
		CustomerID: "cust-1",
		ServiceIDs: []string{"svc-cut", "svc-beard"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !receipt.Booking.JoinTime.Equal(existing.EndTime.Add(5 * time.Minute)) {
		t.Errorf("join = %v, want %v", receipt.Booking.JoinTime, existing.EndTime.Add(5*time.Minute))
	}
	if receipt.Booking.DurationMinutes != 45 {
		t.Errorf("duration = %d, want 45 (combined services)", receipt.Booking.DurationMinutes)
	}
	if receipt.QueuePosition != 2 {
		t.Errorf("position = %d, want 2", receipt.QueuePosition)
	}
}

func TestCreateBookingRejectsSameDayDuplicate(t *testing.T) {
	now := time.Now().UTC()
	repo := newMemBookingRepo(futureBooking("a", "cust-1", now, 5, 35))
	svc, _ := newTestService(repo)

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-1",
		CustomerID: "cust-1",
		ServiceIDs: []string{"svc-cut"},
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestCreateBookingSameCustomerOtherEmployee(t *testing.T) {
	now := time.Now().UTC()
	repo := newMemBookingRepo(futureBooking("a", "cust-1", now, 5, 35))
	svc, _ := newTestService(repo)

	// The same-day rule is per employee: the customer may book emp-2.
	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-2",
		CustomerID: "cust-1",
		ServiceIDs: []string{"svc-cut"},
	})
	if err != nil {
		t.Fatalf("create with other employee: %v", err)
	}
}

func TestCreateBookingUnknownEntities(t *testing.T) {
	svc, _ := newTestService(newMemBookingRepo())

	cases := []struct {
		name string
		req  CreateBookingRequest
	}{
		{"unknown shop", CreateBookingRequest{ShopID: "nope", EmployeeID: "emp-1", CustomerID: "cust-1", ServiceIDs: []string{"svc-cut"}}},
		{"unknown employee", CreateBookingRequest{ShopID: "shop-1", EmployeeID: "nope", CustomerID: "cust-1", ServiceIDs: []string{"svc-cut"}}},
		{"unknown customer", CreateBookingRequest{ShopID: "shop-1", EmployeeID: "emp-1", CustomerID: "nope", ServiceIDs: []string{"svc-cut"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), c.req)
			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("err = %v, want NotFoundError", err)
			}
		})
	}
}

func TestCreateBookingUnknownService(t *testing.T) {
	svc, _ := newTestService(newMemBookingRepo())

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-1",
		CustomerID: "cust-1",
		ServiceIDs: []string{"svc-perm"},
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestCreateBookingMissingInput(t *testing.T) {
	svc, _ := newTestService(newMemBookingRepo())

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-1",
		CustomerID: "cust-1",
	})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestCreateBookingWalkIn(t *testing.T) {
	repo := newMemBookingRepo()
	svc, _ := newTestService(repo)

	receipt, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		ShopID:     "shop-1",
		EmployeeID: "emp-1",
		CustomerID: models.WalkInCustomerID,
		ServiceIDs: []string{"svc-beard"},
	})
	if err != nil {
		t.Fatalf("walk-in create: %v", err)
	}
	if receipt.Booking.CustomerID != models.WalkInCustomerID {
		t.Errorf("customer = %q, want walk-in sentinel", receipt.Booking.CustomerID)
	}
}

func TestCancelBookingCascades(t *testing.T) {
	now := time.Now().UTC()
	target := futureBooking("x", "cust-1", now, 25, 55)
	follower := futureBooking("b", "cust-2", now, 60, 90)
	serving := mkBooking("a", models.StatusInService, now.Add(-10*time.Minute), now.Add(20*time.Minute))
	repo := newMemBookingRepo(serving, target, follower)
	svc, notifier := newTestService(repo)

	cancelled, err := svc.CancelBooking(context.Background(), CancelBookingRequest{
		BookingID:  "x",
		CustomerID: "cust-1",
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	// The follower moves up by the freed 30 minutes.
	moved, _ := repo.GetByID(context.Background(), "b")
	if !moved.JoinTime.Equal(follower.JoinTime.Add(-30 * time.Minute)) {
		t.Errorf("follower join = %v, want %v", moved.JoinTime, follower.JoinTime.Add(-30*time.Minute))
	}
	if !moved.EndTime.Equal(follower.EndTime.Add(-30 * time.Minute)) {
		t.Errorf("follower end = %v, want %v", moved.EndTime, follower.EndTime.Add(-30*time.Minute))
	}

	if got := notifier.byType(models.NotifyBookingShifted); len(got) != 1 {
		t.Errorf("shifted payloads = %d, want 1", len(got))
	}
	if got := notifier.byType(models.NotifyBookingCancel); len(got) == 0 {
		t.Error("expected a cancelled payload")
	}
}

func TestCancelBookingOwnershipChecks(t *testing.T) {
	now := time.Now().UTC()
	repo := newMemBookingRepo(futureBooking("x", "cust-1", now, 25, 55))
	svc, _ := newTestService(repo)

	_, err := svc.CancelBooking(context.Background(), CancelBookingRequest{
		BookingID:  "x",
		CustomerID: "cust-2",
	})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("wrong owner: err = %v, want NotFoundError", err)
	}

	_, err = svc.CancelBooking(context.Background(), CancelBookingRequest{BookingID: "x"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("no requester: err = %v, want ValidationError", err)
	}
}

func TestCancelBookingTerminalAndInService(t *testing.T) {
	now := time.Now().UTC()
	inService := mkBooking("s", models.StatusInService, now.Add(-10*time.Minute), now.Add(20*time.Minute))
	inService.CustomerID = "cust-1"
	done := futureBooking("d", "cust-2", now, -120, -90)
	done.Status = models.StatusCompleted
	repo := newMemBookingRepo(inService, done)
	svc, _ := newTestService(repo)

	for _, c := range []struct{ id, customer string }{
		{"s", "cust-1"},
		{"d", "cust-2"},
	} {
		_, err := svc.CancelBooking(context.Background(), CancelBookingRequest{
			BookingID:  c.id,
			CustomerID: c.customer,
		})
		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Errorf("cancel %s: err = %v, want ConflictError", c.id, err)
		}
	}
}

func TestCancelBookingUnknown(t *testing.T) {
	svc, _ := newTestService(newMemBookingRepo())

	_, err := svc.CancelBooking(context.Background(), CancelBookingRequest{
		BookingID:  "ghost",
		CustomerID: "cust-1",
	})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
