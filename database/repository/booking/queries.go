package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func activeStatusFilter() bson.M {
	return bson.M{"$in": models.ActiveStatuses}
}

func (repo *MongoBookingRepo) findBookings(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ActiveByEmployee returns the employee timeline: active bookings ordered by
// join_time ascending.
func (repo *MongoBookingRepo) ActiveByEmployee(ctx context.Context, employeeID string) ([]models.Booking, error) {
	filter := bson.M{
		"employee_id": employeeID,
		"status":      activeStatusFilter(),
	}
	opts := options.Find().SetSort(bson.D{{Key: "join_time", Value: 1}})
	return repo.findBookings(ctx, filter, opts)
}

// HasActiveSameDay checks for an existing active booking by the customer with
// the employee inside the civil day window.
func (repo *MongoBookingRepo) HasActiveSameDay(ctx context.Context, employeeID, customerID string, dayStart, dayEnd time.Time) (bool, error) {
	filter := bson.M{
		"employee_id": employeeID,
		"customer_id": customerID,
		"status":      activeStatusFilter(),
		"join_time":   bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error checking same-day booking: %w", err)
	}
	return count > 0, nil
}

// DownstreamOf returns active bookings starting at or after `from`, ascending.
func (repo *MongoBookingRepo) DownstreamOf(ctx context.Context, employeeID string, from time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"employee_id": employeeID,
		"status":      activeStatusFilter(),
		"join_time":   bson.M{"$gte": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "join_time", Value: 1}})
	return repo.findBookings(ctx, filter, opts)
}

// AnchorBefore returns the latest active-or-completed booking ending strictly
// before `before`, or nil when the timeline is empty up to that point.
func (repo *MongoBookingRepo) AnchorBefore(ctx context.Context, employeeID string, before time.Time) (*models.Booking, error) {
	filter := bson.M{
		"employee_id": employeeID,
		"status":      bson.M{"$in": []models.BookingStatus{models.StatusBooked, models.StatusInService, models.StatusCompleted}},
		"end_time":    bson.M{"$lt": before},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "end_time", Value: -1}})

	var booking models.Booking
	err := repo.coll.FindOne(ctx, filter, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding anchor booking: %w", err)
	}
	return &booking, nil
}

// DueForService returns booked bookings whose join_time has elapsed.
func (repo *MongoBookingRepo) DueForService(ctx context.Context, employeeID string, now time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":    models.StatusBooked,
		"join_time": bson.M{"$lte": now},
	}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	opts := options.Find().SetSort(bson.D{{Key: "join_time", Value: 1}})
	return repo.findBookings(ctx, filter, opts)
}

// DueForCompletion returns in_service bookings whose end_time has elapsed.
func (repo *MongoBookingRepo) DueForCompletion(ctx context.Context, employeeID string, now time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":   models.StatusInService,
		"end_time": bson.M{"$lte": now},
	}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	opts := options.Find().SetSort(bson.D{{Key: "end_time", Value: 1}})
	return repo.findBookings(ctx, filter, opts)
}
