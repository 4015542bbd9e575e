package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// GET / — liveness plus a database ping so the admin console can surface
// a broken connection instead of failing on the first real request.
func HealthCheck(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "database unreachable"})
			return
		}
		respondOK(c, gin.H{"message": "API is running"})
	}
}
