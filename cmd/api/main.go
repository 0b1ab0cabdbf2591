package main

import (
	"os"

	"esusu/internal/config"
	"esusu/internal/database"
	_ "esusu/internal/docs"
	"esusu/internal/handlers"
	"esusu/internal/logger"
	"esusu/internal/middleware"
	"esusu/internal/scheduler"
	"esusu/internal/services"
	"esusu/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Esusu API
// @version 1.0
// @description Rotating savings circle API. Members pool fixed contributions each cycle and take turns receiving the pot.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Server error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	validator.Register()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return err
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return err
	}

	if err := dbManager.RunMigrations(); err != nil {
		return err
	}
	log.Info("Database migrations completed")

	db := dbManager.DB()

	// Services
	notifier := services.NewLedgerNotifier()
	userService := services.NewUserService(db)
	circleService := services.NewCircleService(db)
	ledgerService := services.NewLedgerService(db, notifier)
	rotationService := services.NewRotationService(db)
	poolService := services.NewPoolService(db, rotationService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	circleHandler := handlers.NewCircleHandler(circleService, auditService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, auditService)
	rotationHandler := handlers.NewRotationHandler(rotationService, auditService)
	poolHandler := handlers.NewPoolHandler(poolService)

	sweeper := scheduler.NewPayoutSweeper(db, notifier)
	if err := sweeper.Start(cfg.PayoutSweepCron); err != nil {
		return err
	}
	defer sweeper.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		v1 := api.Group("/v1")
		{
			auth := v1.Group("/auth")
			{
				auth.POST("/register", authHandler.Register)
				auth.POST("/login", authHandler.Login)
				auth.POST("/refresh", authHandler.RefreshToken)
			}

			protected := v1.Group("")
			protected.Use(middleware.AuthMiddleware())
			{
				protected.GET("/profile", authHandler.GetProfile)

				circles := protected.Group("/circles")
				{
					circles.POST("", circleHandler.CreateCircle)
					circles.GET("", circleHandler.GetUserCircles)
					circles.POST("/join", circleHandler.JoinCircle)
					circles.GET("/:id", circleHandler.GetCircle)
					circles.GET("/:id/start-eligibility", circleHandler.GetStartEligibility)
					circles.POST("/:id/start", circleHandler.StartCircle)
					circles.GET("/:id/eligibility", ledgerHandler.GetEligibility)
					circles.POST("/:id/contributions", ledgerHandler.RecordContribution)
					circles.POST("/:id/payouts", ledgerHandler.RecordPayout)
					circles.GET("/:id/transactions", ledgerHandler.GetCircleTransactions)
					circles.GET("/:id/pool", poolHandler.GetPool)
					circles.GET("/:id/rotation", rotationHandler.GetRotation)
					circles.POST("/:id/rotation/initialize", rotationHandler.InitializeRotation)
					circles.POST("/:id/rotation/advance", rotationHandler.AdvanceRotation)
				}

				transactions := protected.Group("/transactions")
				{
					transactions.POST("/:id/status", ledgerHandler.UpdateTransactionStatus)
				}
			}
		}
	}

	log.Infof("Starting server on port %s", cfg.Port)
	return router.Run(":" + cfg.Port)
}
