package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gardora-backend/internal/media"
	"gardora-backend/internal/models"
)

func uploadProductImages(ctx context.Context, uploader media.Uploader, input MultipartProductInput) ([]string, error) {
	urls := make([]string, 0, len(input.Images))
	for _, file := range input.Images {
		url, err := uploader.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func deleteStoredImages(uploader media.Uploader, urls []string) {
	disk, ok := uploader.(*media.DiskUploader)
	if !ok {
		return
	}
	for _, url := range urls {
		if err := disk.Delete(url); err != nil {
			log.Printf("[PRODUCT] stored image delete failed: %v", err)
		}
	}
}

/* =======================
   LIST
======================= */

// GET /api/products
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		filter := bson.M{}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		if bestseller := strings.TrimSpace(c.Query("bestseller")); bestseller != "" {
			filter["bestseller"] = strings.EqualFold(bestseller, "true")
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pageStr := c.Query("page")
		limitStr := c.Query("limit")

		// Pagination applies only when both params are present; the admin
		// listing fetches everything otherwise.
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}

			total, err := db.Collection("products").CountDocuments(ctx, filter)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			totalPages := int64(0)
			if total > 0 {
				totalPages = int64(math.Ceil(float64(total) / float64(limit)))
			}

			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)

			cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			defer cursor.Close(ctx)

			products := make([]models.Product, 0)
			if err := cursor.All(ctx, &products); err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "decode error")
				return
			}

			respondOK(c, gin.H{
				"products": products,
				"pagination": gin.H{
					"page":       page,
					"limit":      limit,
					"total":      total,
					"totalPages": totalPages,
				},
			})
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		respondOK(c, gin.H{"products": products})
	}
}

// GET /api/products/:id
func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"product": product})
	}
}

/* =======================
   CREATE
======================= */

// POST /api/products/add (admin, multipart)
func AddProduct(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/add"

		if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"success": false, "message": "multipart/form-data required"})
			return
		}

		input, err := parseMultipartProductRequest(c)
		if err != nil {
			log.Println("AddProduct multipart error:", err)
			respondMultipartError(c, err)
			return
		}

		name := strings.TrimSpace(input.Name)
		if !input.NameSet || name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name required")
			return
		}
		if !input.PriceSet || input.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "invalid price")
			return
		}
		if !input.CategorySet || input.Category == "" {
			respondWithError(c, http.StatusBadRequest, route, "category required")
			return
		}
		if !input.QuantitySet {
			respondWithError(c, http.StatusBadRequest, route, "quantity required")
			return
		}
		if input.Quantity < 0 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be zero or greater")
			return
		}

		images, err := uploadProductImages(c.Request.Context(), uploader, input)
		if err != nil {
			log.Println("AddProduct image upload failed:", err)
			respondWithError(c, http.StatusBadGateway, route, "image upload failed")
			return
		}

		product := models.Product{
			Name:        name,
			Price:       input.Price,
			Category:    input.Category,
			SubCategory: input.SubCategory,
			Quantity:    input.Quantity,
			Weight:      input.Weight,
			Description: input.Description,
			Images:      images,
			Bestseller:  input.BestsellerSet && input.Bestseller,
			CreatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Println("AddProduct insert error:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		log.Println("AddProduct insert success:", res.InsertedID)
		respondCreated(c, gin.H{"product": product})
	}
}

/* =======================
   UPDATE
======================= */

type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	SubCategory *string  `json:"subCategory"`
	Quantity    *int     `json:"quantity"`
	Weight      *string  `json:"weight"`
	Description *string  `json:"description"`
	Bestseller  *bool    `json:"bestseller"`
}

// PUT /api/products/update/:id (admin, multipart or JSON)
func UpdateProduct(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/update/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		updateSet := bson.M{}
		var newImages []string
		var oldImages []string

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			input, err := parseMultipartProductRequest(c)
			if err != nil {
				log.Println("UpdateProduct multipart error:", err)
				respondMultipartError(c, err)
				return
			}

			if input.NameSet {
				name := strings.TrimSpace(input.Name)
				if name == "" {
					respondWithError(c, http.StatusBadRequest, route, "name required")
					return
				}
				updateSet["name"] = name
			}
			if input.PriceSet {
				if input.Price <= 0 {
					respondWithError(c, http.StatusBadRequest, route, "invalid price")
					return
				}
				updateSet["price"] = input.Price
			}
			if input.CategorySet {
				updateSet["category"] = input.Category
			}
			if input.SubCategorySet {
				updateSet["subCategory"] = input.SubCategory
			}
			if input.QuantitySet {
				if input.Quantity < 0 {
					respondWithError(c, http.StatusBadRequest, route, "quantity must be zero or greater")
					return
				}
				updateSet["quantity"] = input.Quantity
			}
			if input.WeightSet {
				updateSet["weight"] = input.Weight
			}
			if input.DescriptionSet {
				updateSet["description"] = input.Description
			}
			if input.BestsellerSet {
				updateSet["bestseller"] = input.Bestseller
			}

			if len(input.Images) > 0 {
				var existing models.Product
				err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
				if err == mongo.ErrNoDocuments {
					respondWithError(c, http.StatusNotFound, route, "product not found")
					return
				}
				if err != nil {
					respondWithError(c, http.StatusInternalServerError, route, "db error")
					return
				}
				oldImages = existing.Images

				newImages, err = uploadProductImages(c.Request.Context(), uploader, input)
				if err != nil {
					log.Println("UpdateProduct image upload failed:", err)
					respondWithError(c, http.StatusBadGateway, route, "image upload failed")
					return
				}
				updateSet["images"] = newImages
			}
		} else {
			var req ProductUpdateRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}

			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					respondWithError(c, http.StatusBadRequest, route, "name required")
					return
				}
				updateSet["name"] = name
			}
			if req.Price != nil {
				if *req.Price <= 0 {
					respondWithError(c, http.StatusBadRequest, route, "invalid price")
					return
				}
				updateSet["price"] = *req.Price
			}
			if req.Category != nil {
				updateSet["category"] = strings.TrimSpace(*req.Category)
			}
			if req.SubCategory != nil {
				updateSet["subCategory"] = strings.TrimSpace(*req.SubCategory)
			}
			if req.Quantity != nil {
				if *req.Quantity < 0 {
					respondWithError(c, http.StatusBadRequest, route, "quantity must be zero or greater")
					return
				}
				updateSet["quantity"] = *req.Quantity
			}
			if req.Weight != nil {
				updateSet["weight"] = strings.TrimSpace(*req.Weight)
			}
			if req.Description != nil {
				updateSet["description"] = strings.TrimSpace(*req.Description)
			}
			if req.Bestseller != nil {
				updateSet["bestseller"] = *req.Bestseller
			}
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		result, err := db.Collection("products").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateSet})
		if err != nil {
			log.Println("UpdateProduct update error:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		if len(newImages) > 0 {
			deleteStoredImages(uploader, oldImages)
		}

		var updated models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"product": updated})
	}
}

/* =======================
   DELETE
======================= */

// DELETE /api/products/remove/:id (admin)
func RemoveProduct(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/remove/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		deleteStoredImages(uploader, existing.Images)

		respondOK(c, gin.H{"message": "product deleted"})
	}
}
