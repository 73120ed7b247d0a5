// Package api contains the API routes for the Instruments Catalog API
package api

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/marketbots/instrumentsapi/internal/api/handlers"
	"github.com/marketbots/instrumentsapi/internal/config"
	"github.com/marketbots/instrumentsapi/internal/metrics"
	"github.com/marketbots/instrumentsapi/internal/service"
	"github.com/marketbots/instrumentsapi/pkg/utils/response"
)

// SetupRoutes configures the routes for the API
func SetupRoutes(e *echo.Echo, catalogService *service.CatalogService, m *metrics.Metrics) {

	// Create a group for all API routes
	api := e.Group("/api")

	// Index route
	api.GET("/", indexRoute)

	// Option lookup routes
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	optionGroup := api.Group("/option")
	optionGroup.GET("/immediate", catalogHandler.GetImmediateOption)

	// Catalog routes
	catalogGroup := api.Group("/catalog")
	catalogGroup.GET("/status", catalogHandler.GetCatalogStatus)
	catalogGroup.POST("/refresh", catalogHandler.RefreshCatalog)

	// Prometheus metrics
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

}

// indexRoute sets up the index route for the API
func indexRoute(c echo.Context) error {
	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	message := fmt.Sprintf("%s %s", cfg.APIName, cfg.APIVersion)
	return response.SuccessResponse(c, message)
}
