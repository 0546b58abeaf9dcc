package tasks

import (
	"encoding/json"

	"trimly/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendPush  = "notify:push"
	TypeQueueTick = "queue:tick"
)

// NewPushTask wraps a push payload as an asynq task. Pushes retry a few times
// and then drop; a missed push is recoverable from notification history.
func NewPushTask(payload models.PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendPush, b)
	opts := []asynq.Option{asynq.MaxRetry(3), asynq.Queue("notifications")}

	return task, opts, nil
}

// NewTickTask builds the periodic reconciliation task. It carries no payload;
// the handler reads the clock when it runs.
func NewTickTask() (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeQueueTick, nil)
	opts := []asynq.Option{asynq.MaxRetry(1), asynq.Queue("default")}

	return task, opts
}
