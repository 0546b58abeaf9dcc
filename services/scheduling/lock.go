package scheduling

import (
	"context"
	"fmt"
	"time"

	"trimly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// EmployeeLocker serializes every read-then-write of one employee's timeline
// with an advisory lock in Redis. Two concurrent operations against the same
// employee must not interleave or they could produce overlapping intervals.
type EmployeeLocker struct {
	client *redis.Client
}

// NewEmployeeLocker constructs a locker over the dedicated lock Redis DB.
func NewEmployeeLocker(client *redis.Client) *EmployeeLocker {
	return &EmployeeLocker{client: client}
}

const (
	lockAttempts = 20
	lockRetryGap = 100 * time.Millisecond
)

// Acquire takes the lock for an employee, retrying briefly under contention.
// Contention beyond the retry budget surfaces as a TransientError: the whole
// operation is safe to rerun from scratch.
func (l *EmployeeLocker) Acquire(ctx context.Context, employeeID string) (release func(), err error) {
	key := utils.EmployeeLockPrefix + employeeID
	token := uuid.New().String()

	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, utils.EmployeeLockTTL).Result()
		if err != nil {
			return nil, NewTransientError(fmt.Errorf("employee lock for %s: %w", employeeID, err))
		}
		if ok {
			return func() {
				// Only delete the lock if we still own it; an expired lock
				// may have been re-acquired by someone else.
				current, err := l.client.Get(context.Background(), key).Result()
				if err == nil && current == token {
					l.client.Del(context.Background(), key)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, NewTransientError(ctx.Err())
		case <-time.After(lockRetryGap):
		}
	}

	return nil, NewTransientError(fmt.Errorf("employee %s timeline is busy", employeeID))
}
