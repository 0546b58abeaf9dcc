package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trimly/models"
	"trimly/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ShopQueue returns the live queue view for every active employee of a shop.
// Statuses are reconciled before estimation so a customer never sees a
// "booked" entry whose join time already passed.
func (svc *DefaultSchedulingService) ShopQueue(ctx context.Context, shopID string) (*models.QueueView, error) {
	if shopID == "" {
		return nil, NewValidationError("shop_id is required")
	}

	cacheKey := utils.QueueCachePrefix + "shop:" + shopID
	if view := svc.cachedView(ctx, cacheKey); view != nil {
		return view, nil
	}

	shop, err := svc.Directory.GetShop(ctx, shopID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NewNotFoundError("shop %s does not exist", shopID)
	}
	if err != nil {
		return nil, NewTransientError(err)
	}

	employees, err := svc.Directory.ListEmployeesByShop(ctx, shop.ID)
	if err != nil {
		return nil, NewTransientError(err)
	}

	now := time.Now().UTC()
	view := &models.QueueView{ShopID: shop.ID, GeneratedAt: now}
	for _, emp := range employees {
		if !emp.Active {
			continue
		}
		queue, err := svc.employeeQueue(ctx, emp, now)
		if err != nil {
			return nil, err
		}
		view.Employees = append(view.Employees, *queue)
	}

	svc.cacheView(ctx, cacheKey, view)
	return view, nil
}

// EmployeeQueue returns the live queue for a single employee.
func (svc *DefaultSchedulingService) EmployeeQueue(ctx context.Context, employeeID string) (*models.QueueView, error) {
	if employeeID == "" {
		return nil, NewValidationError("employee_id is required")
	}

	cacheKey := utils.QueueCachePrefix + "employee:" + employeeID
	if view := svc.cachedView(ctx, cacheKey); view != nil {
		return view, nil
	}

	employee, err := svc.Directory.GetEmployee(ctx, employeeID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, NewNotFoundError("employee %s does not exist", employeeID)
	}
	if err != nil {
		return nil, NewTransientError(err)
	}

	now := time.Now().UTC()
	queue, err := svc.employeeQueue(ctx, *employee, now)
	if err != nil {
		return nil, err
	}

	view := &models.QueueView{ShopID: employee.ShopID, GeneratedAt: now, Employees: []models.EmployeeQueue{*queue}}
	svc.cacheView(ctx, cacheKey, view)
	return view, nil
}

// employeeQueue reconciles one employee's statuses, simulates the queue and
// renders it with customer names and display times.
func (svc *DefaultSchedulingService) employeeQueue(ctx context.Context, employee models.Employee, now time.Time) (*models.EmployeeQueue, error) {
	var active []models.Booking
	var payloads []models.PushPayload

	err := withRetry(func() error {
		return svc.Repo.WithTransaction(ctx, func(sc mongo.SessionContext) error {
			_, reconciled, err := svc.reconcile(sc, employee.ID, now)
			if err != nil {
				return err
			}
			payloads = reconciled

			active, err = svc.Repo.ActiveByEmployee(sc, employee.ID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	svc.dispatch(payloads)

	estimate := EstimateQueue(active, now, svc.buffer())

	servingName := ""
	if estimate.Serving != nil {
		servingName = svc.customerLabel(ctx, estimate.Serving.CustomerID)
	}

	queue := &models.EmployeeQueue{
		EmployeeID:           employee.ID,
		EmployeeName:         employee.Name,
		CurrentStatus:        estimate.StatusLine(servingName),
		QueueLength:          estimate.QueueLength,
		EstimatedWaitMinutes: estimate.EstimatedWaitMinutes,
	}
	for _, entry := range estimate.Entries {
		queue.Entries = append(queue.Entries, models.QueueEntry{
			BookingID:       entry.Booking.ID,
			CustomerID:      entry.Booking.CustomerID,
			CustomerName:    svc.customerLabel(ctx, entry.Booking.CustomerID),
			Position:        entry.Position,
			Status:          entry.Booking.Status,
			JoinTime:        entry.StartsAt,
			EndTime:         entry.EndsAt,
			JoinTimeDisplay: utils.Format12h(entry.StartsAt),
			EndTimeDisplay:  utils.Format12h(entry.EndsAt),
			JoinTime24h:     utils.Format24h(entry.StartsAt),
			EndTime24h:      utils.Format24h(entry.EndsAt),
		})
	}
	return queue, nil
}

// customerLabel resolves a display name, falling back to a generic label so a
// stale customer record never breaks the queue view.
func (svc *DefaultSchedulingService) customerLabel(ctx context.Context, customerID string) string {
	if customerID == models.WalkInCustomerID {
		return "Walk-in"
	}
	customer, err := svc.Directory.GetCustomer(ctx, customerID)
	if err != nil || customer.Name == "" {
		return "Customer"
	}
	return customer.Name
}

func (svc *DefaultSchedulingService) cachedView(ctx context.Context, key string) *models.QueueView {
	if svc.Cache == nil {
		return nil
	}
	raw, err := svc.Cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			svc.logger().Warn("queue cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var view models.QueueView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil
	}
	return &view
}

func (svc *DefaultSchedulingService) cacheView(ctx context.Context, key string, view *models.QueueView) {
	if svc.Cache == nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := svc.Cache.Set(ctx, key, raw, utils.QueueCacheTTL).Err(); err != nil {
		svc.logger().Warn("queue cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidateQueues drops cached views after any mutation of an employee's
// timeline.
func (svc *DefaultSchedulingService) invalidateQueues(ctx context.Context, shopID, employeeID string) {
	if svc.Cache == nil {
		return
	}
	keys := []string{
		utils.QueueCachePrefix + "shop:" + shopID,
		utils.QueueCachePrefix + "employee:" + employeeID,
	}
	if err := svc.Cache.Del(ctx, keys...).Err(); err != nil {
		svc.logger().Warn("queue cache invalidation failed",
			zap.String("shop", shopID), zap.String("employee", employeeID), zap.Error(err))
	}
}
