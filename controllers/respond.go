package controllers

import (
	"errors"
	"net/http"

	"labtrack/db"

	"github.com/gin-gonic/gin"
)

// abortWithError maps the repo's error taxonomy onto HTTP statuses. Domain
// errors always surface to the caller; nothing is swallowed.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, db.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, db.ErrForeignKeyViolation):
		c.JSON(http.StatusConflict, gin.H{"error": "in use by related records"})
	case errors.Is(err, db.ErrItemUnavailable),
		errors.Is(err, db.ErrInvalidStatusTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
