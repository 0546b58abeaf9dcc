package scheduling

import (
	"context"
	"fmt"
	"time"

	"trimly/models"

	"go.uber.org/zap"
)

// TickSummary reports the transitions one reconciliation pass applied.
type TickSummary struct {
	Started   int `json:"started"`   // booked -> in_service
	Completed int `json:"completed"` // in_service -> completed
	Missed    int `json:"missed"`    // booked -> cancelled (no-show)
}

// Tick runs one status reconciliation pass over every employee's bookings.
// All predicates compare absolute timestamps, so a missed tick simply means
// the next one catches up, and running the same tick twice applies nothing
// the second time.
func (svc *DefaultSchedulingService) Tick(ctx context.Context, now time.Time) (TickSummary, error) {
	summary, payloads, err := svc.reconcile(ctx, "", now)
	if err != nil {
		return summary, err
	}
	svc.dispatch(payloads)
	if summary.Started+summary.Completed+summary.Missed > 0 {
		svc.logger().Info("reconciler tick applied transitions",
			zap.Int("started", summary.Started),
			zap.Int("completed", summary.Completed),
			zap.Int("missed", summary.Missed))
	}
	return summary, nil
}

// reconcile advances booking statuses for one employee (or all employees when
// employeeID is empty) as of `now`. Each transition is a compare-and-set on
// the stored status, so concurrent passes cannot double-apply; every applied
// transition yields a push payload for the customer and, where known, the shop.
//
// The promote-vs-missed rule: a booked row whose join_time elapsed less than
// the missed-grace window ago is assumed started on schedule and promoted to
// in_service; one whose join_time elapsed at least the grace window ago was
// never picked up (reconciler downtime, backlog) and is cancelled as missed.
// The two predicates partition the due set, so the outcome does not depend on
// evaluation order within a tick.
func (svc *DefaultSchedulingService) reconcile(ctx context.Context, employeeID string, now time.Time) (TickSummary, []models.PushPayload, error) {
	var summary TickSummary
	var payloads []models.PushPayload

	grace := svc.missedGrace()

	due, err := svc.Repo.DueForService(ctx, employeeID, now)
	if err != nil {
		return summary, nil, fmt.Errorf("reconcile: loading due bookings: %w", err)
	}
	for _, b := range due {
		if now.Sub(b.JoinTime) >= grace {
			applied, err := svc.Repo.TransitionStatus(ctx, b.ID, models.StatusBooked, models.StatusCancelled, now)
			if err != nil {
				return summary, nil, err
			}
			if applied {
				summary.Missed++
				payloads = append(payloads, svc.missedPayloads(b)...)
			}
			continue
		}
		applied, err := svc.Repo.TransitionStatus(ctx, b.ID, models.StatusBooked, models.StatusInService, now)
		if err != nil {
			return summary, nil, err
		}
		if applied {
			summary.Started++
			payloads = append(payloads, svc.startedPayloads(b)...)
		}
	}

	done, err := svc.Repo.DueForCompletion(ctx, employeeID, now)
	if err != nil {
		return summary, nil, fmt.Errorf("reconcile: loading finished bookings: %w", err)
	}
	for _, b := range done {
		applied, err := svc.Repo.TransitionStatus(ctx, b.ID, models.StatusInService, models.StatusCompleted, now)
		if err != nil {
			return summary, nil, err
		}
		if applied {
			summary.Completed++
			payloads = append(payloads, svc.completedPayloads(b)...)
		}
	}

	return summary, payloads, nil
}

func (svc *DefaultSchedulingService) startedPayloads(b models.Booking) []models.PushPayload {
	return targetedPayloads(b,
		"It's your turn!",
		"Your service is starting now. Please be at the counter.",
		models.NotifyServiceStarted)
}

func (svc *DefaultSchedulingService) completedPayloads(b models.Booking) []models.PushPayload {
	return targetedPayloads(b,
		"Thanks for visiting",
		"Your service is complete. See you next time!",
		models.NotifyServiceComplete)
}

func (svc *DefaultSchedulingService) missedPayloads(b models.Booking) []models.PushPayload {
	return targetedPayloads(b,
		"Booking missed",
		"Your booking was cancelled because the slot time passed.",
		models.NotifyBookingMissed)
}

// targetedPayloads builds the customer payload plus a shop copy when the
// booking carries a shop id. Walk-ins have no push target of their own.
func targetedPayloads(b models.Booking, title, body, notifyType string) []models.PushPayload {
	var payloads []models.PushPayload
	if b.CustomerID != "" && b.CustomerID != models.WalkInCustomerID {
		payloads = append(payloads, models.PushPayload{
			TargetKind: models.TargetCustomer,
			TargetID:   b.CustomerID,
			Title:      title,
			Body:       body,
			BookingID:  b.ID,
			Type:       notifyType,
		})
	}
	if b.ShopID != "" {
		payloads = append(payloads, models.PushPayload{
			TargetKind: models.TargetShop,
			TargetID:   b.ShopID,
			Title:      fmt.Sprintf("Queue update (%s)", notifyType),
			Body:       fmt.Sprintf("Booking %s: %s", b.ID, body),
			BookingID:  b.ID,
			Type:       notifyType,
		})
	}
	return payloads
}
