package models

import "time"

// Booking represents one customer's appointment on an employee's timeline.
type Booking struct {
	ID              string        `bson:"id" json:"id"`                             // Unique booking identifier (UUID)
	ShopID          string        `bson:"shop_id" json:"shop_id"`                   // Shop where the service happens
	EmployeeID      string        `bson:"employee_id" json:"employee_id"`           // Employee whose timeline the booking occupies
	CustomerID      string        `bson:"customer_id" json:"customer_id"`           // Booking customer; WalkInCustomerID for walk-ins
	ServiceIDs      []string      `bson:"service_ids" json:"service_ids"`           // Requested services
	DurationMinutes int           `bson:"duration_minutes" json:"duration_minutes"` // Sum of service durations; never changes after creation
	JoinTime        time.Time     `bson:"join_time" json:"join_time"`               // Scheduled start (absolute instant)
	EndTime         time.Time     `bson:"end_time" json:"end_time"`                 // Scheduled end; always JoinTime + DurationMinutes
	Status          BookingStatus `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// WalkInCustomerID is the sentinel customer id used when the shop books a
// walk-in who has no account.
const WalkInCustomerID = "walk-in"

// Duration returns the booked service time as a time.Duration.
func (b *Booking) Duration() time.Duration {
	return time.Duration(b.DurationMinutes) * time.Minute
}

// IsActive reports whether the booking still occupies timeline space.
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// RescheduleShift records one downstream booking move performed by a cascade.
type RescheduleShift struct {
	BookingID   string    `json:"booking_id"`
	CustomerID  string    `json:"customer_id"`
	OldJoinTime time.Time `json:"old_join_time"`
	NewJoinTime time.Time `json:"new_join_time"`
	NewEndTime  time.Time `json:"new_end_time"`
}

// SavedMinutes returns how many whole minutes earlier the booking now starts.
func (s RescheduleShift) SavedMinutes() int {
	return int(s.OldJoinTime.Sub(s.NewJoinTime) / time.Minute)
}
