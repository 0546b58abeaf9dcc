package handlers

import (
	"net/http"

	"trimly/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShopQueueHandler returns the live queues of every active employee in a shop.
func ShopQueueHandler(svc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		view, err := svc.ShopQueue(c.Request.Context(), c.Param("shopID"))
		if err != nil {
			logger.Warn("shop queue lookup failed",
				zap.String("shop", c.Param("shopID")),
				zap.Error(err))
			respondSchedulingError(c, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// EmployeeQueueHandler returns one employee's live queue.
func EmployeeQueueHandler(svc scheduling.SchedulingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		view, err := svc.EmployeeQueue(c.Request.Context(), c.Param("employeeID"))
		if err != nil {
			logger.Warn("employee queue lookup failed",
				zap.String("employee", c.Param("employeeID")),
				zap.Error(err))
			respondSchedulingError(c, err)
			return
		}

		c.JSON(http.StatusOK, view)
	}
}
