// Package main is the entry point for the Instruments Catalog API
package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/marketbots/instrumentsapi/internal/api"
	"github.com/marketbots/instrumentsapi/internal/api/middleware"
	"github.com/marketbots/instrumentsapi/internal/config"
	"github.com/marketbots/instrumentsapi/internal/metrics"
	"github.com/marketbots/instrumentsapi/internal/service"
	"github.com/marketbots/instrumentsapi/pkg/utils/zaplogger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Print the configuration
	fmt.Println(cfg.String())

	// Setup logger
	defer zaplogger.Sync()
	zaplogger.SetLogLevel(cfg.ServerLogLevel)

	// startUpMessage
	zaplogger.Info(cfg.APIName + " - " + cfg.APIVersion + " initialized")

	// Connect Redis if configured, used only for refresh event publishing
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = service.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		zaplogger.Info("Redis initialized")
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Setup middleware
	middleware.SetupLoggerMiddleware(e)

	// Setup metrics
	m := metrics.NewMetrics()

	// Setup the catalog service
	publishService := service.NewPublishService(redisClient)
	catalogService := service.NewCatalogService(cfg, m, publishService)

	// Setup routes
	api.SetupRoutes(e, catalogService, m)

	// Setup and start cron jobs
	cronService := service.NewCronService(cfg, catalogService)
	// start cron jobs
	cronService.Start()

	// Start the server
	startServer(e, cfg)

}

// startServer starts the Echo server on the specified port
func startServer(e *echo.Echo, cfg *config.Config) {
	port := cfg.ServerPort
	if port == "" {
		port = "3009"
	}
	zaplogger.Info("SERVER STARTED ON PORT " + port)
	e.Logger.Fatal(e.Start(":" + port))

}
