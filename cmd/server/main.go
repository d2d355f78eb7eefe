package main

import (
	"os"
	"time"

	"store_order/internal/config"
	"store_order/internal/database"
	"store_order/internal/handlers"
	"store_order/internal/redis"
	"store_order/internal/repository"
	"store_order/internal/scheduler"
	"store_order/internal/services"
	"store_order/pkg/openai"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize OpenAI client
	llm := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSeconds)*time.Second)

	// Initialize repositories
	recRepo := repository.NewRecommendationRepository(db)
	itemRepo := repository.NewOrderItemRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	salesRepo := repository.NewSalesRepository(db)

	// Initialize the advisory pipeline
	inventoryAdvisor := services.NewInventoryAdvisor(llm, inventoryRepo)
	salesAdvisor := services.NewSalesAdvisor(llm, salesRepo)
	weatherAdvisor := services.NewWeatherAdvisor(llm)
	extractor := services.NewOrderExtractor(llm, log)
	coordinator := services.NewCoordinator(inventoryAdvisor, salesAdvisor, weatherAdvisor, extractor, log)

	// Initialize services
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	recommendationService := services.NewRecommendationService(db, recRepo, itemRepo, log)
	executionService := services.NewExecutionService(db, log)
	orderService := services.NewOrderService(orderRepo, redisClient, cacheTTL, log)
	inventoryService := services.NewInventoryService(inventoryRepo)
	ingestService := services.NewIngestService(salesRepo, inventoryRepo, log)

	// Initialize the daily scheduler
	sched, err := scheduler.New(coordinator, recommendationService, redisClient, cacheTTL, cfg.ScheduleTime, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid schedule time")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize handlers
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService, executionService, sched)
	apiHandler := handlers.NewAPIHandler(orderService, inventoryService, ingestService, sched, redisClient)

	// Setup routes
	router := gin.Default()

	router.GET("/health", apiHandler.Health)

	api := router.Group("/api")
	{
		// Pipeline
		api.POST("/orders/recommend", recommendationHandler.RunPipeline)

		// Recommendation lifecycle
		api.GET("/recommendations", recommendationHandler.List)
		api.GET("/recommendations/:id", recommendationHandler.Get)
		api.GET("/recommendations/:id/items", recommendationHandler.GetItems)
		api.POST("/recommendations/:id/approve", recommendationHandler.Approve)
		api.POST("/recommendations/:id/reject", recommendationHandler.Reject)
		api.POST("/recommendations/:id/execute", recommendationHandler.Execute)
		api.PUT("/recommendations/:id/items/:item_id", recommendationHandler.UpdateItem)

		// Order ledger
		api.GET("/orders/pending", apiHandler.GetPendingOrders)
		api.GET("/orders/history", apiHandler.GetOrderHistory)
		api.GET("/orders/statistics", apiHandler.GetOrderStatistics)
		api.PUT("/orders/:id/approve", apiHandler.ApproveOrder)
		api.PUT("/orders/:id/reject", apiHandler.RejectOrder)

		// Inventory
		api.GET("/inventory", apiHandler.GetInventory)
		api.GET("/inventory/low-stock", apiHandler.GetLowStock)

		// Data upload
		api.POST("/data/upload/sales", apiHandler.UploadSalesCSV)
		api.POST("/data/upload/inventory", apiHandler.UploadInventoryCSV)

		// Scheduler
		api.GET("/scheduler/status", apiHandler.GetSchedulerStatus)
		api.POST("/scheduler/run-now", apiHandler.RunSchedulerNow)
	}

	// Start server
	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
