package routes

import (
	"net/http"
	"time"

	"trimly/handlers"
	"trimly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers booking create/cancel endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBookingHandler)
		api.DELETE("/:bookingID", hb.CancelBookingHandler)
	}
}

// RegisterQueueRoutes registers the live queue views.
func RegisterQueueRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/queues")
	{
		api.GET("/shop/:shopID", hb.ShopQueueHandler)
		api.GET("/employee/:employeeID", hb.EmployeeQueueHandler)
	}
}

// RegisterNotificationRoutes registers notification history lookups.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.GET("/:targetID", hb.NotificationHistoryHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the
// background dependency monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		health := utils.GetHealthStatus()
		status := http.StatusOK
		if !health.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": health, "message": "Hi, I'm Trimly"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, hb)
	RegisterQueueRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterHealthRoute(r)
}
