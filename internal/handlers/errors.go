package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gradeplanner/backend/internal/grading"
	"github.com/gradeplanner/backend/internal/services"
)

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSubjectNotFound), errors.Is(err, grading.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrSubjectExists):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidSubjectCode), errors.Is(err, grading.ErrInvalidMove):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
