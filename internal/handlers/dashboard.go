package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GET /api/dashboard/stats (admin) — document counts for the admin home
// page cards.
func GetDashboardStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/dashboard/stats"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		counts := gin.H{}
		for _, collection := range []string{"products", "gardeners", "orders", "users"} {
			count, err := db.Collection(collection).CountDocuments(ctx, bson.M{})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			counts[collection] = count
		}

		respondOK(c, gin.H{"stats": counts})
	}
}
