package handlers

import (
	"net/http"
	"strconv"

	"trimly/services/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHistoryHandler lists a target's recorded notifications, newest
// first. The target is the customer or shop id the pushes were addressed to.
func NotificationHistoryHandler(svc *notification.DefaultNotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		targetID := c.Param("targetID")
		if targetID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target id is required"})
			return
		}

		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

		history, err := svc.History(c.Request.Context(), targetID, limit)
		if err != nil {
			logger.Error("failed to list notification history",
				zap.String("target", targetID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"notifications": history})
	}
}
