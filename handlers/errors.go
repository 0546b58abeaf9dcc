package handlers

import (
	"errors"
	"net/http"

	"trimly/services/scheduling"

	"github.com/gin-gonic/gin"
)

// respondSchedulingError maps scheduling core errors onto HTTP statuses.
func respondSchedulingError(c *gin.Context, err error) {
	var validationErr *scheduling.ValidationError
	var notFoundErr *scheduling.NotFoundError
	var conflictErr *scheduling.ConflictError
	var transientErr *scheduling.TransientError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
	case errors.As(err, &transientErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "the queue is busy, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
