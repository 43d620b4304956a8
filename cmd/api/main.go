package main

import (
	"fmt"
	"net/http"
	"os"

	"investrack/internal/config"
	"investrack/internal/database"
	"investrack/internal/handlers"
	"investrack/internal/logger"
	"investrack/internal/middleware"
	"investrack/internal/services"
	"investrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "investrack/internal/docs" // Import swagger docs
)

// @title           Investrack API
// @version         1.0
// @description     Investrack is a multi-tenant investment platform backend: users browse a product catalog, buy and sell units, track portfolio valuations, and raise support tickets.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	portfolioService := services.NewPortfolioService(db)
	transactionService := services.NewTransactionService(db)
	supportService := services.NewSupportService(db)

	// Bootstrap the admin account on a fresh database
	if err := userService.EnsureAdmin(appConfig.AdminEmail, appConfig.AdminPassword); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	supportHandler := handlers.NewSupportHandler(supportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Product catalog routes
	products := protected.Group("/products")
	products.GET("", productHandler.GetProducts)
	products.GET("/types", productHandler.GetInvestmentTypes)
	products.GET("/filter", productHandler.FilterProducts)
	products.GET("/type/:type", productHandler.GetProductsByType)
	products.GET("/risk/:level", productHandler.GetProductsByRisk)
	products.GET("/:id", productHandler.GetProduct)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("", portfolioHandler.GetPortfolio)
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/allocation", portfolioHandler.GetAllocation)
	portfolio.GET("/gains", portfolioHandler.GetGains)
	portfolio.POST("/buy", portfolioHandler.Buy)
	portfolio.POST("/sell", portfolioHandler.Sell)
	portfolio.GET("/holdings/:id", portfolioHandler.GetHolding)

	// Transaction history routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/filter", transactionHandler.GetFilteredTransactions)

	// Support ticket routes
	support := protected.Group("/support/tickets")
	support.POST("", supportHandler.CreateTicket)
	support.GET("", supportHandler.GetMyTickets)
	support.GET("/:id", supportHandler.GetTicket)
	support.POST("/:id/respond", supportHandler.RespondToTicket)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/products", productHandler.GetAllProducts)
	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.PATCH("/products/:id/active", productHandler.SetProductActive)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)
	admin.GET("/support/tickets", supportHandler.GetAllTickets)

	log.Infof("Starting Investrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
