package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/controllers"
	"github.com/matias-herrera/repairshop-api/middleware"
	"github.com/matias-herrera/repairshop-api/models"
	"github.com/matias-herrera/repairshop-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Repair Shop API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Settings{},
		&models.Client{},
		&models.Order{},
		&models.StatusHistory{},
		&models.Part{},
		&models.CashEntry{},
		&models.User{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services. The settings row is created here, before any
	// request is served.
	services.InitLifecycleService(db)
	services.InitLedgerService(db)
	settingsService, err := services.InitSettingsService(db)
	if err != nil {
		log.Fatalf("Failed to initialize settings: %v", err)
	}
	services.InitDocumentService(settingsService, cfg)
	if _, err := services.InitLogoStorage(cfg); err != nil {
		log.Fatalf("Failed to initialize logo storage: %v", err)
	}

	if err := seedAdminUser(cfg); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// "seed" creates a demo data set and exits
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seedDemoData(); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		log.Println("Demo data created")
		return
	}

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the gin engine with middleware and all routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	router.Use(sessions.Sessions("repairshop_session", store))

	// Locally stored logos are served straight from the uploads directory
	if cfg.LogoStorage == config.LogoStorageLocal {
		router.Static("/uploads", cfg.UploadDir)
	}

	// Public tracking page, no auth
	router.GET("/t/:token", controllers.GetPublicOrder)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		v1.POST("/auth/login", controllers.Login)

		authed := v1.Group("")
		authed.Use(middleware.RequireLogin())
		{
			authed.POST("/auth/logout", controllers.Logout)
			authed.GET("/auth/me", controllers.Me)

			authed.GET("/dashboard", controllers.Dashboard)

			authed.GET("/clients", controllers.ListClients)
			authed.POST("/clients", controllers.CreateClient)
			authed.GET("/clients/:id", controllers.GetClient)
			authed.PUT("/clients/:id", controllers.UpdateClient)

			authed.GET("/orders", controllers.ListOrders)
			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders/:id", controllers.GetOrder)
			authed.PUT("/orders/:id", controllers.UpdateOrder)
			authed.POST("/orders/:id/status", controllers.ChangeOrderStatus)
			authed.POST("/orders/:id/parts", controllers.AddPart)
			authed.DELETE("/orders/:id/parts/:partID", controllers.DeletePart)
			authed.GET("/orders/:id/pdf", controllers.OrderPDF)
			authed.GET("/orders/:id/qr.png", controllers.OrderQR)

			authed.GET("/cash", controllers.GetCash)
			authed.POST("/cash", controllers.CreateCashEntry)

			authed.GET("/settings", controllers.GetSettings)
			authed.PUT("/settings", controllers.UpdateSettings)
			authed.POST("/settings/logo", controllers.UploadLogo)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repair Shop API is running",
	})
}

// seedAdminUser creates the initial admin account when the users table is
// empty and ADMIN_PASSWORD is set.
func seedAdminUser(cfg *config.Config) error {
	db := config.GetDB()

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Println("No users exist and ADMIN_PASSWORD is not set; sign-in will not be possible")
		return nil
	}

	admin := models.User{Username: "admin", Role: models.RoleAdmin}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Created initial admin user")
	return nil
}

// seedDemoData populates an empty database with a small demo data set.
func seedDemoData() error {
	db := config.GetDB()

	var count int64
	if err := db.Model(&models.Client{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Clients already exist, skipping demo data")
		return nil
	}

	client := models.Client{
		Name:    "Juan Pérez",
		Phone:   "261-555-1234",
		Email:   "juan@example.com",
		Address: "San Martín 123",
		TaxID:   "20-11222333-4",
	}
	if err := db.Create(&client).Error; err != nil {
		return err
	}

	lifecycle := services.GetLifecycleService()
	order := models.Order{
		ClientID:      client.ID,
		Brand:         "Samsung",
		Model:         "A54",
		IMEI:          "3598...",
		Accessories:   "Case",
		UnlockCode:    "1-2-5-8",
		ProblemReport: "Does not charge",
		Diagnosis:     "Charging connector",
		EstimatedCost: decimal.NewNullDecimal(decimal.NewFromInt(45000)),
		Deposit:       decimal.NewFromInt(10000),
	}
	if err := lifecycle.CreateOrder(&order, "Intake"); err != nil {
		return err
	}
	if _, err := lifecycle.ChangeStatus(order.ID, models.StatusDiagnosis, "Faulty connector found"); err != nil {
		return err
	}

	part := models.Part{
		OrderID:     order.ID,
		Description: "USB-C connector",
		Cost:        decimal.NewFromInt(12000),
	}
	return db.Create(&part).Error
}
