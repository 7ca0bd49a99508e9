package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OwnerMiddleware scopes every planner request to the authenticated user.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid user ID"})
			c.Abort()
			return
		}

		c.Set("owner_id", ownerID)
		c.Next()
	}
}

// OwnerID returns the owner resolved by OwnerMiddleware.
func OwnerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("owner_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
