package handlers

import (
	"net/http"

	"trimly/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateBookingHandler books the earliest feasible slot with an employee.
func CreateBookingHandler(svc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req scheduling.CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		receipt, err := svc.CreateBooking(c.Request.Context(), req)
		if err != nil {
			logger.Warn("create booking failed",
				zap.String("employee", req.EmployeeID),
				zap.String("customer", req.CustomerID),
				zap.Error(err))
			respondSchedulingError(c, err)
			return
		}

		c.JSON(http.StatusCreated, receipt)
	}
}

// CancelBookingHandler cancels a booked appointment and cascades the queue.
func CancelBookingHandler(svc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		req := scheduling.CancelBookingRequest{
			BookingID:  c.Param("bookingID"),
			CustomerID: c.Query("customer_id"),
			ShopID:     c.Query("shop_id"),
		}

		cancelled, err := svc.CancelBooking(c.Request.Context(), req)
		if err != nil {
			logger.Warn("cancel booking failed",
				zap.String("booking", req.BookingID),
				zap.Error(err))
			respondSchedulingError(c, err)
			return
		}

		c.JSON(http.StatusOK, cancelled)
	}
}
