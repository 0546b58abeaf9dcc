package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository persists a copy of every push so clients can list
// their notification history.
type NotificationRepository interface {
	Save(ctx context.Context, n *models.Notification) error
	MarkSent(ctx context.Context, id string) error
	ListByTarget(ctx context.Context, targetID string, limit int64) ([]models.Notification, error)
}

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo constructs a new instance of MongoNotificationRepo.
func NewMongoNotificationRepo() NotificationRepository {
	return &MongoNotificationRepo{
		coll: database.DB().Collection("notifications"),
	}
}

// Save inserts a notification record.
func (repo *MongoNotificationRepo) Save(ctx context.Context, n *models.Notification) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, n); err != nil {
		return fmt.Errorf("error saving notification: %w", err)
	}
	return nil
}

// MarkSent flags a notification as delivered.
func (repo *MongoNotificationRepo) MarkSent(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"sent": true}}
	if _, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("error marking notification %s sent: %w", id, err)
	}
	return nil
}

// ListByTarget returns the most recent notifications for a customer or shop.
func (repo *MongoNotificationRepo) ListByTarget(ctx context.Context, targetID string, limit int64) ([]models.Notification, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"target_id": targetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications for %s: %w", targetID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var notifications []models.Notification
	if err := cursor.All(ctxWithTimeout, &notifications); err != nil {
		return nil, fmt.Errorf("error decoding notifications: %w", err)
	}
	return notifications, nil
}
