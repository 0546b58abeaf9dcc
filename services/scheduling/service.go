package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "trimly/database/repository/booking"
	directoryRepo "trimly/database/repository/directory"
	"trimly/models"
	"trimly/services/notification"
	"trimly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultSchedulingService is the production implementation of
// SchedulingService.
type DefaultSchedulingService struct {
	Repo      bookingRepo.BookingRepository
	Directory directoryRepo.DirectoryRepository
	Notifier  notification.NotificationService
	Locker    *EmployeeLocker
	Cache     *redis.Client // queue view cache, optional

	// Scheduling parameters; zero values fall back to the shipped defaults
	// so tests can construct the service bare.
	BufferMinutes        int
	MissedGraceMinutes   int
	NotifyMinImprovement int
	NotifyWaitThreshold  int

	Logger *zap.Logger
}

const (
	defaultBufferMinutes      = 5
	defaultMissedGraceMinutes = 10
	defaultMinImprovement     = 5
	defaultWaitThreshold      = 10
	maxRetries                = 3
)

func (svc *DefaultSchedulingService) buffer() time.Duration {
	if svc.BufferMinutes > 0 {
		return time.Duration(svc.BufferMinutes) * time.Minute
	}
	return defaultBufferMinutes * time.Minute
}

func (svc *DefaultSchedulingService) missedGrace() time.Duration {
	if svc.MissedGraceMinutes > 0 {
		return time.Duration(svc.MissedGraceMinutes) * time.Minute
	}
	return defaultMissedGraceMinutes * time.Minute
}

func (svc *DefaultSchedulingService) notifyMinImprovement() int {
	if svc.NotifyMinImprovement > 0 {
		return svc.NotifyMinImprovement
	}
	return defaultMinImprovement
}

func (svc *DefaultSchedulingService) notifyWaitThreshold() int {
	if svc.NotifyWaitThreshold > 0 {
		return svc.NotifyWaitThreshold
	}
	return defaultWaitThreshold
}

func (svc *DefaultSchedulingService) logger() *zap.Logger {
	if svc.Logger != nil {
		return svc.Logger
	}
	return zap.L()
}

// withRetry reruns op when it fails with a TransientError (lock or store
// contention). Every operation re-reads current state, so a rerun from
// scratch is always safe.
func withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = op()
		var transient *TransientError
		if err == nil || !errors.As(err, &transient) {
			return err
		}
	}
	return err
}

// lock serializes an operation per employee. A nil Locker degrades to no
// locking, leaving correctness to the transaction alone.
func (svc *DefaultSchedulingService) lock(ctx context.Context, employeeID string) (func(), error) {
	if svc.Locker == nil {
		return func() {}, nil
	}
	return svc.Locker.Acquire(ctx, employeeID)
}

// dispatch fires push payloads after a commit. Delivery is best-effort:
// failures are logged and never propagated to the caller.
func (svc *DefaultSchedulingService) dispatch(payloads []models.PushPayload) {
	if svc.Notifier == nil {
		return
	}
	for _, p := range payloads {
		if err := svc.Notifier.Notify(context.Background(), p); err != nil {
			svc.logger().Warn("notification dispatch failed",
				zap.String("target", string(p.TargetKind)+":"+p.TargetID),
				zap.String("type", p.Type),
				zap.Error(err))
		}
	}
}

// CreateBooking validates the request, reconciles the employee's statuses,
// allocates the earliest feasible slot and persists the booking, all inside
// one transaction serialized per employee.
func (svc *DefaultSchedulingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.BookingReceipt, error) {
	if req.ShopID == "" || req.EmployeeID == "" || req.CustomerID == "" {
		return nil, NewValidationError("shop_id, employee_id and customer_id are required")
	}
	if len(req.ServiceIDs) == 0 {
		return nil, NewValidationError("at least one service is required")
	}

	shop, employee, err := svc.resolveShopEmployee(ctx, req.ShopID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != models.WalkInCustomerID {
		customer, err := svc.Directory.GetCustomer(ctx, req.CustomerID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewNotFoundError("customer %s does not exist", req.CustomerID)
		}
		if err != nil {
			return nil, NewTransientError(err)
		}
		if !customer.Active {
			return nil, NewConflictError("customer %s is deactivated", req.CustomerID)
		}
	}

	totalMinutes := 0
	for _, sid := range req.ServiceIDs {
		service, ok := employee.ServiceByID(sid)
		if !ok {
			return nil, NewConflictError("employee %s does not offer service %s", employee.ID, sid)
		}
		if service.DurationMinutes <= 0 {
			return nil, NewValidationError("service %s has a non-positive duration", sid)
		}
		totalMinutes += service.DurationMinutes
	}

	// One `now` per operation: the whole transaction sees a single instant.
	now := time.Now().UTC()

	var booking *models.Booking
	var receipt *models.BookingReceipt
	var payloads []models.PushPayload

	err = withRetry(func() error {
		release, err := svc.lock(ctx, employee.ID)
		if err != nil {
			return err
		}
		defer release()

		booking, receipt, payloads = nil, nil, nil
		return svc.Repo.WithTransaction(ctx, func(sc mongo.SessionContext) error {
			// Never allocate against stale statuses.
			_, reconciled, err := svc.reconcile(sc, employee.ID, now)
			if err != nil {
				return err
			}
			payloads = append(payloads, reconciled...)

			dayStart, dayEnd := civilDayBounds(now)
			if req.CustomerID != models.WalkInCustomerID {
				exists, err := svc.Repo.HasActiveSameDay(sc, employee.ID, req.CustomerID, dayStart, dayEnd)
				if err != nil {
					return err
				}
				if exists {
					return NewConflictError("customer %s already has an active booking with this employee today", req.CustomerID)
				}
			}

			active, err := svc.Repo.ActiveByEmployee(sc, employee.ID)
			if err != nil {
				return err
			}

			slot := AllocateSlot(active, time.Duration(totalMinutes)*time.Minute, now, svc.buffer())
			booking = &models.Booking{
				ID:              uuid.New().String(),
				ShopID:          shop.ID,
				EmployeeID:      employee.ID,
				CustomerID:      req.CustomerID,
				ServiceIDs:      req.ServiceIDs,
				DurationMinutes: totalMinutes,
				JoinTime:        slot.JoinTime,
				EndTime:         slot.EndTime,
				Status:          slot.Status,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := svc.Repo.Create(sc, booking); err != nil {
				return NewTransientError(err)
			}

			receipt = buildReceipt(booking, active, now)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	payloads = append(payloads, targetedPayloads(*booking,
		"Booking confirmed",
		fmt.Sprintf("Your slot with %s is at %s (est. %d min wait).",
			employee.Name, utils.Format12h(booking.JoinTime), receipt.WaitMinutes),
		models.NotifyBookingCreated)...)
	svc.dispatch(payloads)
	svc.invalidateQueues(ctx, shop.ID, employee.ID)

	svc.logger().Info("booking created",
		zap.String("booking", booking.ID),
		zap.String("employee", employee.ID),
		zap.Time("join", booking.JoinTime),
		zap.Int("duration_min", booking.DurationMinutes))

	return receipt, nil
}

// CancelBooking marks a booked appointment cancelled and shifts every later
// active booking of the employee earlier. Cancellation and cascade commit (or
// roll back) as one unit; no booking is ever left half-shifted.
func (svc *DefaultSchedulingService) CancelBooking(ctx context.Context, req CancelBookingRequest) (*models.Booking, error) {
	if req.BookingID == "" {
		return nil, NewValidationError("booking_id is required")
	}
	if (req.CustomerID == "") == (req.ShopID == "") {
		return nil, NewValidationError("exactly one of customer_id or shop_id must identify the requester")
	}

	booking, err := svc.Repo.GetByID(ctx, req.BookingID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NewNotFoundError("booking %s does not exist", req.BookingID)
	}
	if err != nil {
		return nil, NewTransientError(err)
	}
	if req.CustomerID != "" && booking.CustomerID != req.CustomerID {
		return nil, NewNotFoundError("booking %s does not belong to customer %s", req.BookingID, req.CustomerID)
	}
	if req.ShopID != "" && booking.ShopID != req.ShopID {
		return nil, NewNotFoundError("booking %s does not belong to shop %s", req.BookingID, req.ShopID)
	}

	now := time.Now().UTC()

	var cancelled *models.Booking
	var payloads []models.PushPayload

	err = withRetry(func() error {
		release, err := svc.lock(ctx, booking.EmployeeID)
		if err != nil {
			return err
		}
		defer release()

		cancelled, payloads = nil, nil
		return svc.Repo.WithTransaction(ctx, func(sc mongo.SessionContext) error {
			current, err := svc.Repo.GetByID(sc, req.BookingID)
			if err != nil {
				return NewTransientError(err)
			}
			switch current.Status {
			case models.StatusCompleted, models.StatusCancelled:
				return NewConflictError("booking %s is already %s", current.ID, current.Status)
			case models.StatusInService:
				return NewConflictError("booking %s is already in service and cannot be cancelled", current.ID)
			}

			applied, err := svc.Repo.TransitionStatus(sc, current.ID, models.StatusBooked, models.StatusCancelled, now)
			if err != nil {
				return err
			}
			if !applied {
				return NewConflictError("booking %s changed state concurrently", current.ID)
			}
			current.Status = models.StatusCancelled
			current.UpdatedAt = now

			shifts, shiftPayloads, err := svc.cascadeFrom(sc, *current, now)
			if err != nil {
				return err
			}
			payloads = append(payloads, shiftPayloads...)
			cancelled = current

			svc.logger().Info("cancellation cascade planned",
				zap.String("booking", current.ID),
				zap.String("employee", current.EmployeeID),
				zap.Int("shifted", len(shifts)))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	payloads = append(payloads, targetedPayloads(*cancelled,
		"Booking cancelled",
		"Your booking has been cancelled.",
		models.NotifyBookingCancel)...)
	svc.dispatch(payloads)
	svc.invalidateQueues(ctx, cancelled.ShopID, cancelled.EmployeeID)

	return cancelled, nil
}

// cascadeFrom loads the anchor and downstream bookings for a cancellation,
// computes the shifts, and persists every one inside the caller's
// transaction. Customers whose wait improves enough get a push.
func (svc *DefaultSchedulingService) cascadeFrom(sc mongo.SessionContext, cancelled models.Booking, now time.Time) ([]models.RescheduleShift, []models.PushPayload, error) {
	anchor, err := svc.Repo.AnchorBefore(sc, cancelled.EmployeeID, cancelled.EndTime)
	if err != nil {
		return nil, nil, err
	}
	downstream, err := svc.Repo.DownstreamOf(sc, cancelled.EmployeeID, cancelled.EndTime)
	if err != nil {
		return nil, nil, err
	}

	shifts := ComputeCascade(cancelled, anchor, downstream, now, svc.buffer())

	var payloads []models.PushPayload
	for _, shift := range shifts {
		if err := svc.Repo.UpdateTimes(sc, shift.BookingID, shift.NewJoinTime, shift.NewEndTime, now); err != nil {
			return nil, nil, err
		}
		if shift.CustomerID == "" || shift.CustomerID == models.WalkInCustomerID {
			continue
		}
		if shiftNotifiable(shift, now, svc.notifyMinImprovement(), svc.notifyWaitThreshold()) {
			payloads = append(payloads, models.PushPayload{
				TargetKind: models.TargetCustomer,
				TargetID:   shift.CustomerID,
				Title:      "You've moved up the queue!",
				Body: fmt.Sprintf("Your slot now starts at %s, %d minutes earlier.",
					utils.Format12h(shift.NewJoinTime), shift.SavedMinutes()),
				BookingID: shift.BookingID,
				Type:      models.NotifyBookingShifted,
			})
		}
	}
	return shifts, payloads, nil
}

func (svc *DefaultSchedulingService) resolveShopEmployee(ctx context.Context, shopID, employeeID string) (*models.Shop, *models.Employee, error) {
	shop, err := svc.Directory.GetShop(ctx, shopID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, NewNotFoundError("shop %s does not exist", shopID)
	}
	if err != nil {
		return nil, nil, NewTransientError(err)
	}
	if !shop.Active {
		return nil, nil, NewConflictError("shop %s is not accepting bookings", shopID)
	}

	employee, err := svc.Directory.GetEmployee(ctx, employeeID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, NewNotFoundError("employee %s does not exist", employeeID)
	}
	if err != nil {
		return nil, nil, NewTransientError(err)
	}
	if employee.ShopID != shop.ID {
		return nil, nil, NewNotFoundError("employee %s does not work at shop %s", employeeID, shopID)
	}
	if !employee.Active {
		return nil, nil, NewConflictError("employee %s is not taking bookings", employeeID)
	}
	return shop, employee, nil
}

// buildReceipt computes the new booking's queue position and wait against the
// timeline it was allocated into.
func buildReceipt(booking *models.Booking, activeBefore []models.Booking, now time.Time) *models.BookingReceipt {
	position := 1
	for _, b := range activeBefore {
		if b.JoinTime.Before(booking.JoinTime) {
			position++
		}
	}
	return &models.BookingReceipt{
		Booking:         booking,
		QueuePosition:   position,
		WaitMinutes:     ceilMinutes(booking.JoinTime.Sub(now)),
		JoinTimeDisplay: utils.Format12h(booking.JoinTime),
		EndTimeDisplay:  utils.Format12h(booking.EndTime),
	}
}

// civilDayBounds returns the [start, end) instants of the calendar day
// containing t in the shop timezone.
func civilDayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(utils.ShopLocation())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
