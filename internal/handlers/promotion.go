package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gardora-backend/internal/models"
)

type PromotionCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Image       string `json:"image"`
	EndDate     string `json:"endDate" binding:"required"`
	IsActive    *bool  `json:"isActive"`
}

type PromotionUpdateRequest struct {
	Title       *string `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	EndDate     *string `json:"endDate"`
	IsActive    *bool   `json:"isActive"`
}

// The admin form submits the end date as yyyy-mm-dd; API clients may send
// RFC 3339.
func parsePromotionEndDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// GET /api/promotions
func GetPromotions(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/promotions"
		defer handlePanic(c, route)

		filter := bson.M{}
		if v := strings.TrimSpace(c.Query("isActive")); v != "" {
			filter["isActive"] = v == "true"
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("promotions").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		promotions := make([]models.Promotion, 0)
		if err := cursor.All(ctx, &promotions); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, gin.H{"promotions": promotions})
	}
}

// POST /api/promotions (admin)
func CreatePromotion(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/promotions"

		var req PromotionCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			respondWithError(c, http.StatusBadRequest, route, "title required")
			return
		}

		endDate, ok := parsePromotionEndDate(req.EndDate)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid endDate")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		promotion := models.Promotion{
			Title:       title,
			Subtitle:    strings.TrimSpace(req.Subtitle),
			Description: strings.TrimSpace(req.Description),
			Image:       strings.TrimSpace(req.Image),
			EndDate:     endDate,
			IsActive:    isActive,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("promotions").InsertOne(ctx, promotion)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		promotion.ID = result.InsertedID.(primitive.ObjectID)
		respondCreated(c, gin.H{"promotion": promotion})
	}
}

// PUT /api/promotions/:id (admin)
func UpdatePromotion(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/promotions/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req PromotionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				respondWithError(c, http.StatusBadRequest, route, "title required")
				return
			}
			updateSet["title"] = title
		}
		if req.Subtitle != nil {
			updateSet["subtitle"] = strings.TrimSpace(*req.Subtitle)
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Image != nil {
			updateSet["image"] = strings.TrimSpace(*req.Image)
		}
		if req.EndDate != nil {
			endDate, ok := parsePromotionEndDate(*req.EndDate)
			if !ok {
				respondWithError(c, http.StatusBadRequest, route, "invalid endDate")
				return
			}
			updateSet["endDate"] = endDate
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("promotions").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateSet})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "promotion not found")
			return
		}

		var updated models.Promotion
		if err := db.Collection("promotions").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"promotion": updated})
	}
}

// DELETE /api/promotions/:id (admin)
func DeletePromotion(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/promotions/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("promotions").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "promotion not found")
			return
		}

		respondOK(c, gin.H{"message": "promotion deleted"})
	}
}
