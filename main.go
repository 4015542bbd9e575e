package main

import (
	"log"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gardora-backend/internal/config"
	"gardora-backend/internal/database"
	"gardora-backend/internal/handlers"
	"gardora-backend/internal/media"
	"gardora-backend/internal/middleware"
)

func main() {
	config.Load()
	if err := config.AppEnv.Validate(); err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureGardenerIndexes(db); err != nil {
		log.Printf("gardener index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	var uploader media.Uploader
	if config.AppEnv.MediaUploadURL != "" {
		uploader = media.NewRemoteUploader(config.AppEnv.MediaUploadURL, config.AppEnv.MediaAPIKey)
		log.Println("media uploads proxied to:", config.AppEnv.MediaUploadURL)
	} else {
		uploader = media.NewDiskUploader(config.AppEnv.UploadDir)
		log.Println("media uploads stored under:", config.AppEnv.UploadDir)
	}

	jwtSecret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Static("/uploads", filepath.Join(config.AppEnv.UploadDir, "uploads"))

	r.GET("/", handlers.HealthCheck(db))

	users := r.Group("/api/users")
	{
		users.POST("/register", handlers.Register(db, jwtSecret, accessTTL))
		users.POST("/login", handlers.Login(db, jwtSecret, accessTTL))
		users.POST("/admin/login", handlers.AdminLogin(db, jwtSecret, accessTTL))
		users.GET("/me", middleware.AuthGuard(jwtSecret), handlers.GetMe(db))

		users.GET("", middleware.AdminAuth(jwtSecret), handlers.GetAllUsers(db))
		users.PUT("/:id", middleware.AdminAuth(jwtSecret), handlers.UpdateUser(db))
		users.DELETE("/:id", middleware.AdminAuth(jwtSecret), handlers.DeleteUser(db))
	}

	products := r.Group("/api/products")
	{
		products.GET("", handlers.GetProducts(db))
		products.GET("/:id", handlers.GetProduct(db))

		products.POST("/add", middleware.AdminAuth(jwtSecret), handlers.AddProduct(db, uploader))
		products.PUT("/update/:id", middleware.AdminAuth(jwtSecret), handlers.UpdateProduct(db, uploader))
		products.DELETE("/remove/:id", middleware.AdminAuth(jwtSecret), handlers.RemoveProduct(db, uploader))
	}

	gardener := r.Group("/api/gardener")
	{
		gardener.GET("", handlers.GetGardeners(db))

		gardener.GET("/profile", middleware.GardenerAuth(jwtSecret), handlers.GetGardenerProfile(db))
		gardener.PUT("/profile", middleware.GardenerAuth(jwtSecret), handlers.UpdateGardenerProfile(db, uploader))

		gardener.GET("/:id", handlers.GetGardener(db))
		gardener.POST("/add", middleware.AdminAuth(jwtSecret), handlers.AddGardener(db, uploader))
		gardener.PUT("/:id", middleware.AdminAuth(jwtSecret), handlers.UpdateGardener(db, uploader))
		gardener.DELETE("/:id", middleware.AdminAuth(jwtSecret), handlers.DeleteGardener(db, uploader))
	}

	orders := r.Group("/api/orders")
	{
		orders.POST("", middleware.AuthGuard(jwtSecret), handlers.CreateOrder(db))

		orders.GET("/all", middleware.AdminAuth(jwtSecret), handlers.GetAllOrders(db))
		orders.GET("/:id", middleware.AdminAuth(jwtSecret), handlers.GetOrder(db))
		orders.PUT("/:id/status", middleware.AdminAuth(jwtSecret), handlers.UpdateOrderStatus(db))
		orders.DELETE("/:id", middleware.AdminAuth(jwtSecret), handlers.DeleteOrder(db))
	}

	promotions := r.Group("/api/promotions")
	{
		promotions.GET("", handlers.GetPromotions(db))

		promotions.POST("", middleware.AdminAuth(jwtSecret), handlers.CreatePromotion(db))
		promotions.PUT("/:id", middleware.AdminAuth(jwtSecret), handlers.UpdatePromotion(db))
		promotions.DELETE("/:id", middleware.AdminAuth(jwtSecret), handlers.DeletePromotion(db))
	}

	r.GET("/api/dashboard/stats", middleware.AdminAuth(jwtSecret), handlers.GetDashboardStats(db))

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
