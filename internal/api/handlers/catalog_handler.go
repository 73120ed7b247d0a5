// Package handlers contains the handlers for the API
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/marketbots/instrumentsapi/internal/service"
	"github.com/marketbots/instrumentsapi/pkg/utils/response"
)

// CatalogHandler serves option lookups and catalog management routes.
type CatalogHandler struct {
	CatalogService *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		CatalogService: catalogService,
	}
}

// GetImmediateOption returns the nearest-expiry option instrument for a given
// asset symbol, strike price and instrument type. A query that matches
// nothing is a success with null data, not an error.
func (h *CatalogHandler) GetImmediateOption(c echo.Context) error {
	assetSymbol := c.QueryParam("asset_symbol")
	strikePriceStr := c.QueryParam("strike_price")
	instrumentType := c.QueryParam("instrument_type")

	// check if asset_symbol is provided
	if len(assetSymbol) == 0 {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Input `asset_symbol` is required")
	}

	// check if strike_price is provided
	if len(strikePriceStr) == 0 {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Input `strike_price` is required")
	}

	// check if instrument_type is provided
	if len(instrumentType) == 0 {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Input `instrument_type` is required")
	}

	// check if strike_price is a valid number
	strikePrice, err := strconv.ParseFloat(strikePriceStr, 64)
	if err != nil {
		return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid `strike_price` value, must be a number")
	}

	record, err := h.CatalogService.FindImmediateOption(assetSymbol, strikePrice, instrumentType)
	if err != nil {
		if errors.Is(err, service.ErrCatalogNotReady) {
			return response.ErrorResponse(c, http.StatusServiceUnavailable, "CatalogException", err.Error())
		}
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}

	return response.SuccessResponse(c, record)
}

// GetCatalogStatus returns the readiness and refresh state of the catalog
func (h *CatalogHandler) GetCatalogStatus(c echo.Context) error {
	return response.SuccessResponse(c, h.CatalogService.Status())
}

// RefreshCatalog triggers a refresh cycle. A trigger that overlaps a running
// cycle is reported as skipped, not as a failure.
func (h *CatalogHandler) RefreshCatalog(c echo.Context) error {
	instruments, err := h.CatalogService.Refresh()
	if err != nil {
		if errors.Is(err, service.ErrRefreshInProgress) {
			return response.SuccessResponse(c, map[string]interface{}{
				"skipped": true,
				"message": err.Error(),
			})
		}
		return response.ErrorResponse(c, http.StatusBadGateway, "CatalogException", err.Error())
	}
	return response.SuccessResponse(c, map[string]interface{}{
		"instruments": instruments,
	})
}
