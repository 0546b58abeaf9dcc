package models

import "time"

// QueueEntry is one simulated position in an employee's queue, as shown to
// customers on the waiting screen.
type QueueEntry struct {
	BookingID       string        `json:"booking_id"`
	CustomerID      string        `json:"customer_id"`
	CustomerName    string        `json:"customer_name,omitempty"`
	Position        int           `json:"position"` // 1-based index in the time-ordered active list
	Status          BookingStatus `json:"status"`
	JoinTime        time.Time     `json:"join_time"`
	EndTime         time.Time     `json:"end_time"`
	JoinTimeDisplay string        `json:"join_time_display"` // 12-hour clock, shop timezone
	EndTimeDisplay  string        `json:"end_time_display"`
	JoinTime24h     string        `json:"join_time_24h"` // 24-hour variant for dashboards
	EndTime24h      string        `json:"end_time_24h"`
}

// EmployeeQueue is the live queue view for one employee.
type EmployeeQueue struct {
	EmployeeID           string       `json:"employee_id"`
	EmployeeName         string       `json:"employee_name,omitempty"`
	CurrentStatus        string       `json:"current_status"` // "Serving <name>" / "Ready for next customer" / "Available"
	QueueLength          int          `json:"queue_length"`
	EstimatedWaitMinutes int          `json:"estimated_wait_minutes"`
	Entries              []QueueEntry `json:"entries"`
}

// QueueView is the response of the queue listing endpoint: one shop's (or one
// employee's) queues at a single instant.
type QueueView struct {
	ShopID      string          `json:"shop_id,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Employees   []EmployeeQueue `json:"employees"`
}

// BookingReceipt is returned to the customer after a successful booking.
type BookingReceipt struct {
	Booking         *Booking `json:"booking"`
	QueuePosition   int      `json:"queue_position"`
	WaitMinutes     int      `json:"wait_minutes"`
	JoinTimeDisplay string   `json:"join_time_display"`
	EndTimeDisplay  string   `json:"end_time_display"`
}
