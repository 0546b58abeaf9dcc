package notification

import (
	"context"
	"fmt"

	directoryRepo "trimly/database/repository/directory"
	notificationRepo "trimly/database/repository/notification"
	"trimly/models"

	"go.uber.org/zap"
)

// NotificationService delivers push payloads produced by the scheduling core.
// Delivery is best-effort; callers must never roll back a committed booking
// because a push failed.
type NotificationService interface {
	Notify(ctx context.Context, payload models.PushPayload) error
}

// DefaultNotificationService sends pushes over FCM and records each one so
// clients can list their history.
type DefaultNotificationService struct {
	directory directoryRepo.DirectoryRepository
	records   notificationRepo.NotificationRepository
	logger    *zap.Logger
}

func NewDefaultNotificationService(
	directory directoryRepo.DirectoryRepository,
	records notificationRepo.NotificationRepository,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if directory == nil || records == nil {
		return nil, fmt.Errorf("notification service initialization error: directory or records repository is nil")
	}
	if logger == nil {
		logger = zap.L()
	}
	return &DefaultNotificationService{
		directory: directory,
		records:   records,
		logger:    logger,
	}, nil
}
