package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/controllers"
	"github.com/swathoops/swathoops-api/middleware"
	"github.com/swathoops/swathoops-api/models"
	"github.com/swathoops/swathoops-api/services"
)

func main() {
	log.Println("Starting Swathoops storefront API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.User{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.SiteSetting{},
		&models.Admin{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := ensureAdminAccount(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	services.InitRazorpayService(cfg)

	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the gin engine with CORS and all API routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Public storefront
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders/track", controllers.TrackOrder)
		v1.POST("/payment/create-order", controllers.CreatePaymentOrder)
		v1.POST("/payment/verify", controllers.VerifyPayment)
		v1.GET("/checkout/settings", controllers.GetCheckoutSettings)

		// Admin session
		v1.POST("/admin/login", controllers.Login)
		v1.POST("/admin/logout", controllers.Logout)

		// Admin back-office
		admin := v1.Group("")
		admin.Use(middleware.RequireAdmin(cfg))
		{
			admin.GET("/admin/me", controllers.Me)
			admin.GET("/admin/stats", controllers.GetStats)
			admin.GET("/admin/customers", controllers.ListCustomers)
			admin.GET("/admin/settings", controllers.GetSettings)
			admin.PUT("/admin/settings", controllers.UpdateSettings)
			admin.GET("/orders", controllers.ListOrders)
			admin.GET("/orders/:id", controllers.GetOrder)
			admin.PUT("/orders/:id", controllers.UpdateOrder)
			admin.POST("/products", controllers.CreateProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.POST("/upload", controllers.UploadImages)
		}
	}

	return router
}

// ensureAdminAccount creates the initial back-office admin from the
// environment when no admin exists yet
func ensureAdminAccount(db *gorm.DB, cfg *config.Config) error {
	var admin models.Admin
	err := db.Where("email = ?", cfg.AdminEmail).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin = models.Admin{
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	db := config.GetDB()
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Swathoops API is running",
	})
}
