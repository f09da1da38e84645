package handlers

import (
	"errors"
	"net/http"

	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler holds the stock service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// RecordMovement handles appending a new stock movement to the ledger.
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req services.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RecordMovement: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	movement, err := h.stockService.RecordMovement(req)
	if err != nil {
		utils.LogError(err, "RecordMovement: Error from stockService.RecordMovement")
		respondStockError(c, err, "Failed to record stock movement.")
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// UpdateMovement handles correcting an existing ledger entry in place.
func (h *StockHandler) UpdateMovement(c *gin.Context) {
	movementID, ok := parseIDParam(c, "id", "movement")
	if !ok {
		return
	}

	var req services.UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateMovement: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	movement, err := h.stockService.UpdateMovement(movementID, req)
	if err != nil {
		utils.LogError(err, "UpdateMovement: Error from stockService.UpdateMovement")
		respondStockError(c, err, "Failed to update stock movement.")
		return
	}
	c.JSON(http.StatusOK, movement)
}

// Available handles availability lookups scoped to the requesting staff
// member's station.
func (h *StockHandler) Available(c *gin.Context) {
	var req services.AvailableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Available: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	available, err := h.stockService.AvailableForStaff(req)
	if err != nil {
		utils.LogError(err, "Available: Error from stockService.AvailableForStaff")
		respondStockError(c, err, "Failed to compute availability.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": req.ProductID, "available": available})
}

// ListAll handles the admin-wide movement listing.
func (h *StockHandler) ListAll(c *gin.Context) {
	movements, err := h.stockService.ListAll()
	if err != nil {
		utils.LogError(err, "ListAll: Error from stockService.ListAll")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock movements.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, movements)
}

// ListForStation handles the owner's station-scoped movement listing.
func (h *StockHandler) ListForStation(c *gin.Context) {
	stationID, ok := parseIDParam(c, "station_id", "station")
	if !ok {
		return
	}

	movements, err := h.stockService.ListForStation(stationID)
	if err != nil {
		utils.LogError(err, "ListForStation: Error from stockService.ListForStation")
		respondStockError(c, err, "Failed to fetch stock movements.")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// ListForStaff handles the onsite staff movement listing, scoped to the
// staff member's station.
func (h *StockHandler) ListForStaff(c *gin.Context) {
	staffID, ok := parseIDParam(c, "staff_id", "staff")
	if !ok {
		return
	}

	movements, err := h.stockService.ListForStaff(staffID)
	if err != nil {
		utils.LogError(err, "ListForStaff: Error from stockService.ListForStaff")
		respondStockError(c, err, "Failed to fetch stock movements.")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// ListDeliveryForStaff handles the delivery staff listing, restricted to
// delivered and returned movements of the staff member's station.
func (h *StockHandler) ListDeliveryForStaff(c *gin.Context) {
	staffID, ok := parseIDParam(c, "staff_id", "staff")
	if !ok {
		return
	}

	movements, err := h.stockService.ListDeliveryForStaff(staffID)
	if err != nil {
		utils.LogError(err, "ListDeliveryForStaff: Error from stockService.ListDeliveryForStaff")
		respondStockError(c, err, "Failed to fetch stock movements.")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// MovementsByKind handles filtering a station's movements by kind.
func (h *StockHandler) MovementsByKind(c *gin.Context) {
	stationID, ok := parseIDParam(c, "station_id", "station")
	if !ok {
		return
	}

	movements, err := h.stockService.MovementsByKind(stationID, c.Param("stock_type"))
	if err != nil {
		utils.LogError(err, "MovementsByKind: Error from stockService.MovementsByKind")
		respondStockError(c, err, "Failed to fetch stock movements.")
		return
	}
	c.JSON(http.StatusOK, movements)
}

// Summary handles the per-product availability summary for a station.
func (h *StockHandler) Summary(c *gin.Context) {
	stationID, ok := parseIDParam(c, "station_id", "station")
	if !ok {
		return
	}

	summary, err := h.stockService.Summary(stationID)
	if err != nil {
		utils.LogError(err, "Summary: Error from stockService.Summary")
		respondStockError(c, err, "Failed to summarize stock.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func respondStockError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrStockValidation), errors.Is(err, services.ErrInvalidMovementKind):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrStaffNoStation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found or has no station affiliation.", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrMovementNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock movement not found.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

// parseIDParam parses a positive integer path parameter, responding with a
// 400 when it is malformed.
func parseIDParam(c *gin.Context, param, entity string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(param))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+entity+" ID format.", c.Param(param)))
		return 0, false
	}
	return id, true
}
