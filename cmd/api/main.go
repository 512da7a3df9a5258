package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spendwise/internal/analytics"
	"spendwise/internal/cache"
	"spendwise/internal/clock"
	"spendwise/internal/config"
	"spendwise/internal/database"
	"spendwise/internal/eventbus"
	"spendwise/internal/handlers"
	"spendwise/internal/localstore"
	"spendwise/internal/logger"
	"spendwise/internal/middleware"
	"spendwise/internal/models"
	"spendwise/internal/services"
	"spendwise/internal/validator"

	_ "spendwise/internal/docs" // Import swagger docs
)

// @title           Spendwise API
// @version         1.0
// @description     Spendwise is a personal finance tracker: expenses, categories, savings goals, and spending insights.
// @termsOfService  http://swagger.io/terms/

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

	// Register custom request validators
	validator.Register()

	bus := eventbus.New()
	registerEventLogging(bus)
	sysClock := clock.System{}

	// Cache manager with periodic expiry sweeps
	cacheManager := cache.NewManager()
	defer cacheManager.Stop()

	var expenseService services.ExpenseServicer
	var insightService services.InsightServicer

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": appConfig.StorageBackend})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	if appConfig.StorageBackend == config.BackendLocal {
		// Local mode: expenses and insights served from JSON files on disk,
		// no database and no auth surface.
		store, err := localstore.New(appConfig.LocalStoreDir)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		// Retention sweep: drop records older than the widest analytics
		// window so the store does not grow without bound.
		cutoff := time.Now().AddDate(0, 0, -analytics.RecentWindowDays)
		if removed, err := store.ClearOld(middleware.LocalUserID, cutoff); err != nil {
			log.Warnw("local store retention sweep failed", "error", err)
		} else if removed > 0 {
			log.Infow("local store retention sweep", "removed", removed)
		}
		expenseService = services.NewLocalExpenseService(store, sysClock)
		insightService = services.NewInsightService(expenseService, sysClock)

		expenseHandler := handlers.NewExpenseHandler(expenseService, nil)
		insightHandler := handlers.NewInsightHandler(insightService)

		local := v1.Group("/")
		local.Use(middleware.LocalUser())
		registerExpenseRoutes(local, expenseHandler)
		local.GET("/insights", insightHandler.GetInsights)

		log.Infow("starting server", "port", appConfig.Port, "backend", "local", "store_dir", appConfig.LocalStoreDir)
		return router.Run(":" + appConfig.Port)
	}

	// Database mode
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	expenseCache := cache.NewLRUCache[[]models.Expense](appConfig.CacheMaxSize, appConfig.CacheTTL)
	cacheManager.Register(expenseCache)
	cacheManager.StartCleanup(appConfig.CacheTTL)

	// Initialize services
	userService := services.NewUserService(db)
	expenseService = services.NewExpenseService(db, expenseCache, sysClock)
	categoryService := services.NewCategoryService(db)
	settingsService := services.NewSettingsService(db)
	goalService := services.NewGoalService(db, bus, sysClock)
	insightService = services.NewInsightService(expenseService, sysClock)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, bus)
	expenseHandler := handlers.NewExpenseHandler(expenseService, settingsService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	goalHandler := handlers.NewGoalHandler(goalService)
	insightHandler := handlers.NewInsightHandler(insightService)

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/recover", authHandler.RecoverPassword)
	auth.POST("/reset", authHandler.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Expense routes
	registerExpenseRoutes(protected, expenseHandler)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Settings routes
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)
	goals.POST("/:id/transactions", goalHandler.AddTransaction)
	goals.GET("/:id/transactions", goalHandler.ListTransactions)

	// Achievement routes
	protected.GET("/achievements", goalHandler.ListAchievements)

	// Insight routes
	protected.GET("/insights", insightHandler.GetInsights)

	log.Infof("Starting Spendwise backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// registerEventLogging attaches audit-style log subscribers for auth state
// changes and goal completions.
func registerEventLogging(bus *eventbus.Bus) {
	authEvents := []eventbus.EventType{
		eventbus.EventSignedIn,
		eventbus.EventSignedOut,
		eventbus.EventTokenRefreshed,
		eventbus.EventUserUpdated,
		eventbus.EventPasswordRecovery,
	}
	for _, eventType := range authEvents {
		eventbus.SubscribeTyped(bus, eventType, func(e eventbus.Event, payload eventbus.AuthEvent) error {
			logger.Get().Infow("auth event",
				"event", string(e.Type),
				"user_id", payload.UserID,
				"email", payload.Email,
			)
			return nil
		})
	}

	eventbus.SubscribeTyped(bus, eventbus.EventGoalCompleted, func(e eventbus.Event, payload eventbus.GoalCompletedEvent) error {
		logger.Get().Infow("goal completed",
			"user_id", payload.UserID,
			"goal_id", payload.GoalID,
			"title", payload.Title,
			"achievement_id", payload.AchievementID,
		)
		return nil
	})
}

// registerExpenseRoutes wires the expense surface, shared between the
// database and local storage backends.
func registerExpenseRoutes(group *gin.RouterGroup, handler *handlers.ExpenseHandler) {
	expenses := group.Group("/expenses")
	expenses.POST("", handler.CreateExpense)
	expenses.GET("", handler.ListExpenses)
	expenses.GET("/stats", handler.GetStats)
	expenses.GET("/weekly", handler.GetWeeklySeries)
	expenses.GET("/categories", handler.GetCategoryBreakdown)
	expenses.GET("/:id", handler.GetExpense)
	expenses.PUT("/:id", handler.UpdateExpense)
	expenses.DELETE("/:id", handler.DeleteExpense)
}
