package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}

// Create inserts a new booking document.
func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// UpdateTimes rewrites a booking's scheduled interval.
func (repo *MongoBookingRepo) UpdateTimes(ctx context.Context, bookingID string, joinTime, endTime, now time.Time) error {
	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{
		"join_time":  joinTime,
		"end_time":   endTime,
		"updated_at": now,
	}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating booking times for %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s not found for time update", bookingID)
	}
	return nil
}

// TransitionStatus performs a compare-and-set status move. The filter includes
// the expected current status so concurrent ticks cannot double-apply.
func (repo *MongoBookingRepo) TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, now time.Time) (bool, error) {
	if !from.CanTransition(to) {
		return false, fmt.Errorf("illegal status transition %s -> %s for booking %s", from, to, bookingID)
	}
	filter := bson.M{"id": bookingID, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": now}}
	res, err := repo.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error transitioning booking %s to %s: %w", bookingID, to, err)
	}
	return res.MatchedCount == 1, nil
}

// WithTransaction runs fn inside a single Mongo session transaction, with the
// usual commit-or-abort dance.
func (repo *MongoBookingRepo) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
