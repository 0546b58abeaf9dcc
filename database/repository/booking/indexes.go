// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on booking ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary timeline query: employee + status + join_time ordering
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "status", Value: 1}, {Key: "join_time", Value: 1}},
			Options: options.Index().SetName("employee_status_join_idx"),
		},
		// Reconciler scans by status and due time
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "join_time", Value: 1}},
			Options: options.Index().SetName("status_join_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "end_time", Value: 1}},
			Options: options.Index().SetName("status_end_idx"),
		},
		// Same-day duplicate check
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "customer_id", Value: 1}, {Key: "join_time", Value: 1}},
			Options: options.Index().SetName("employee_customer_join_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
