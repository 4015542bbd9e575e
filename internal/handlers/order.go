package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gardora-backend/internal/middleware"
	"gardora-backend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type orderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"`
}

type shippingAddressRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	PhoneNo    string `json:"phoneNo" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
}

type createOrderRequest struct {
	Products        []orderItemRequest     `json:"products" binding:"required,min=1,dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress" binding:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Products))
	total := 0.0

	for _, item := range req.Products {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return models.Order{}, fmt.Errorf("invalid productId: %s", item.ProductID)
		}

		items = append(items, models.OrderItem{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		total += item.Price * float64(item.Quantity)
	}

	return models.Order{
		Products: items,
		ShippingAddress: models.ShippingAddress{
			FullName:   strings.TrimSpace(req.ShippingAddress.FullName),
			Email:      strings.ToLower(strings.TrimSpace(req.ShippingAddress.Email)),
			PhoneNo:    strings.TrimSpace(req.ShippingAddress.PhoneNo),
			Address:    strings.TrimSpace(req.ShippingAddress.Address),
			City:       strings.TrimSpace(req.ShippingAddress.City),
			State:      strings.TrimSpace(req.ShippingAddress.State),
			PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
		},
		TotalAmount: total,
		Status:      models.OrderStatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

/* =========================
   CREATE
========================= */

// POST /api/orders — every order starts as pending. Product quantities are
// deliberately not decremented here.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		if userID, ok := c.Get(middleware.CtxUserID); ok {
			if id, ok := userID.(primitive.ObjectID); ok {
				order.UserID = &id
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Println("CreateOrder insert error:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		order.ID = res.InsertedID.(primitive.ObjectID)
		log.Println("CreateOrder insert success:", res.InsertedID)
		respondCreated(c, gin.H{"order": order})
	}
}

/* =========================
   READ
========================= */

// GET /api/orders/all (admin)
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/all"
		defer handlePanic(c, route)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !models.ValidOrderStatus(status) {
				respondWithError(c, http.StatusBadRequest, route, "invalid status filter")
				return
			}
			filter["status"] = status
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d orders", route, len(orders))
		respondOK(c, gin.H{"orders": orders})
	}
}

// GET /api/orders/:id (admin)
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"order": order})
	}
}

/* =========================
   STATUS TRANSITION
========================= */

// PUT /api/orders/:id/status (admin)
// Validates enum membership only; any known status may replace any other.
// Matching is exact, no case folding. An unknown status persists nothing.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		if !models.ValidOrderStatus(status) {
			respondWithError(c, http.StatusBadRequest, route,
				fmt.Sprintf("invalid status: %s", req.Status))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"status": status}},
		)
		if err != nil {
			log.Println("UpdateOrderStatus update error:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		log.Printf("[%s] order %s status set to %s", route, id.Hex(), status)
		respondOK(c, gin.H{"message": "order status updated", "status": status})
	}
}

/* =========================
   DELETE
========================= */

// DELETE /api/orders/:id (admin)
func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/orders/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		respondOK(c, gin.H{"message": "order deleted"})
	}
}
