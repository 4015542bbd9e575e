package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"gardora-backend/internal/middleware"
	"gardora-backend/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin gardener"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin gardener"`
}

func issueToken(userID primitive.ObjectID, email, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.Hex(),
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":       user.ID.Hex(),
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
}

// POST /api/users/register
func Register(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		username := strings.TrimSpace(req.Username)

		role := req.Role
		if role == "" {
			role = models.RoleUser
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] register db error:", err)
			respondWithError(c, http.StatusInternalServerError, "POST /api/users/register", "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, "POST /api/users/register", "email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, "POST /api/users/register", "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			CartData:     map[string]interface{}{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			// The count check above races with concurrent registrations;
			// the unique index has the final word.
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, "POST /api/users/register", "email already registered")
				return
			}
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, "POST /api/users/register", "db error")
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)

		token, err := issueToken(user.ID, user.Email, user.Role, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] register token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, "POST /api/users/register", "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		respondCreated(c, gin.H{"token": token, "user": userResponse(user)})
	}
}

func login(db *mongo.Database, jwtSecret string, accessTTL time.Duration, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/login"
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		filter := bson.M{"email": email}
		if requiredRole != "" {
			filter["role"] = requiredRole
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, filter).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials:", email)
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials:", email)
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		token, err := issueToken(user.ID, user.Email, user.Role, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		respondOK(c, gin.H{"token": token, "user": userResponse(user)})
	}
}

// POST /api/users/login
func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return login(db, jwtSecret, accessTTL, "")
}

// POST /api/users/admin/login only admits accounts whose role is admin.
func AdminLogin(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return login(db, jwtSecret, accessTTL, models.RoleAdmin)
}

// GET /api/users/me
func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, "GET /api/users/me", "user not found")
			return
		}

		respondOK(c, gin.H{"user": userResponse(user)})
	}
}

// GET /api/users (admin)
func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users"
		defer handlePanic(c, route)

		filter := bson.M{}
		if role := strings.TrimSpace(c.Query("role")); role != "" {
			if !models.ValidRole(role) {
				respondWithError(c, http.StatusBadRequest, route, "invalid role filter")
				return
			}
			filter["role"] = role
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, gin.H{"users": users})
	}
}

// PUT /api/users/:id (admin)
func UpdateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updateSet := bson.M{"updatedAt": time.Now()}

		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if username == "" {
				respondWithError(c, http.StatusBadRequest, route, "username required")
				return
			}
			updateSet["username"] = username
		}
		if req.Email != nil {
			updateSet["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Role != nil {
			updateSet["role"] = *req.Role
		}
		if req.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
				return
			}
			updateSet["password"] = string(hash)
		}

		if len(updateSet) == 1 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("users").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updateSet})
		if err != nil {
			log.Println("UpdateUser update error:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		var updated models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"user": userResponse(updated)})
	}
}

// DELETE /api/users/:id (admin)
func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		respondOK(c, gin.H{"message": "user deleted"})
	}
}
