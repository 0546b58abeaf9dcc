package handlers

import (
	bookingRepoPkg "trimly/database/repository/booking"
	directoryRepoPkg "trimly/database/repository/directory"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	BookingRepo   bookingRepoPkg.BookingRepository
	DirectoryRepo directoryRepoPkg.DirectoryRepository

	// Booking endpoints
	CreateBookingHandler gin.HandlerFunc
	CancelBookingHandler gin.HandlerFunc

	// Queue endpoints
	ShopQueueHandler     gin.HandlerFunc
	EmployeeQueueHandler gin.HandlerFunc

	// Notification endpoints
	NotificationHistoryHandler gin.HandlerFunc
}
