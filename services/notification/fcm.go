package notification

import (
	"context"
	"fmt"
	"time"

	"trimly/models"
	"trimly/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notify resolves the target's FCM token, sends the push and records it. A
// target with no token is not an error: the record is still saved unsent so
// the client can pull it from history. Permanently dead tokens are pruned.
func (s *DefaultNotificationService) Notify(ctx context.Context, payload models.PushPayload) error {
	record := &models.Notification{
		ID:        uuid.New().String(),
		TargetID:  payload.TargetID,
		Kind:      string(payload.TargetKind),
		Type:      payload.Type,
		Title:     payload.Title,
		Body:      payload.Body,
		BookingID: payload.BookingID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.records.Save(ctx, record); err != nil {
		return fmt.Errorf("Notify: failed to record notification: %w", err)
	}

	token, err := s.resolveToken(ctx, payload)
	if err != nil {
		return err
	}
	if token == "" {
		s.logger.Debug("push target has no FCM token, recorded only",
			zap.String("target", string(payload.TargetKind)+":"+payload.TargetID),
			zap.String("type", payload.Type))
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: map[string]string{
			"type":      payload.Type,
			"bookingId": payload.BookingID,
			"url":       payload.URL,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "queue_updates",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		if messaging.IsUnregistered(err) {
			s.pruneToken(ctx, payload)
			return nil
		}
		return fmt.Errorf("Notify: failed to send FCM message: %w", err)
	}

	if err := s.records.MarkSent(ctx, record.ID); err != nil {
		s.logger.Warn("failed to mark notification sent", zap.String("id", record.ID), zap.Error(err))
	}
	return nil
}

// History lists a target's recorded notifications, newest first.
func (s *DefaultNotificationService) History(ctx context.Context, targetID string, limit int64) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.records.ListByTarget(ctx, targetID, limit)
}

func (s *DefaultNotificationService) resolveToken(ctx context.Context, payload models.PushPayload) (string, error) {
	switch payload.TargetKind {
	case models.TargetCustomer:
		if payload.TargetID == models.WalkInCustomerID {
			return "", nil
		}
		customer, err := s.directory.GetCustomer(ctx, payload.TargetID)
		if err != nil {
			return "", fmt.Errorf("Notify: could not find customer %s: %w", payload.TargetID, err)
		}
		return customer.FCMToken, nil
	case models.TargetShop:
		shop, err := s.directory.GetShop(ctx, payload.TargetID)
		if err != nil {
			return "", fmt.Errorf("Notify: could not find shop %s: %w", payload.TargetID, err)
		}
		return shop.FCMToken, nil
	default:
		return "", fmt.Errorf("Notify: unknown target kind %q", payload.TargetKind)
	}
}

// pruneToken clears a token FCM reported as unregistered so later pushes stop
// retrying a dead device.
func (s *DefaultNotificationService) pruneToken(ctx context.Context, payload models.PushPayload) {
	var err error
	switch payload.TargetKind {
	case models.TargetCustomer:
		err = s.directory.ClearCustomerFCMToken(ctx, payload.TargetID)
	case models.TargetShop:
		err = s.directory.ClearShopFCMToken(ctx, payload.TargetID)
	}
	if err != nil {
		s.logger.Warn("failed to prune dead FCM token",
			zap.String("target", string(payload.TargetKind)+":"+payload.TargetID), zap.Error(err))
		return
	}
	s.logger.Info("pruned unregistered FCM token",
		zap.String("target", string(payload.TargetKind)+":"+payload.TargetID))
}
