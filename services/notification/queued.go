package notification

import (
	"context"
	"fmt"

	"trimly/models"
	"trimly/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueuedNotificationService hands pushes to the asynq worker instead of
// sending inline, keeping FCM latency out of the booking path.
type QueuedNotificationService struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewQueuedNotificationService(client *asynq.Client, logger *zap.Logger) (*QueuedNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("queued notification service initialization error: asynq client is nil")
	}
	if logger == nil {
		logger = zap.L()
	}
	return &QueuedNotificationService{client: client, logger: logger}, nil
}

// Notify enqueues the payload for the background worker.
func (s *QueuedNotificationService) Notify(ctx context.Context, payload models.PushPayload) error {
	task, opts, err := tasks.NewPushTask(payload)
	if err != nil {
		return fmt.Errorf("Notify: failed to build push task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("Notify: failed to enqueue push task: %w", err)
	}
	s.logger.Debug("push task enqueued",
		zap.String("task_id", info.ID),
		zap.String("target", string(payload.TargetKind)+":"+payload.TargetID),
		zap.String("type", payload.Type))
	return nil
}
