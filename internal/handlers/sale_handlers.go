package handlers

import (
	"errors"
	"net/http"

	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// CreateSale handles recording a sale. Delivery sales also append a
// delivered movement to the stock ledger.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req services.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	sale, err := h.saleService.CreateSale(req)
	if err != nil {
		utils.LogError(err, "CreateSale: Error from saleService.CreateSale")
		respondSaleError(c, err, "Failed to create sale.")
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// GetSale handles fetching a sale by ID.
func (h *SaleHandler) GetSale(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id", "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSaleByID(saleID)
	if err != nil {
		utils.LogError(err, "GetSale: Error from saleService.GetSaleByID for saleID "+utils.Int64ToStr(saleID))
		respondSaleError(c, err, "Failed to fetch sale.")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// UpdateSale handles editing a sale, reversing and re-applying its ledger
// effect through compensating movements.
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	saleID, ok := parseIDParam(c, "id", "sale")
	if !ok {
		return
	}

	var req services.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	sale, err := h.saleService.UpdateSale(saleID, req)
	if err != nil {
		utils.LogError(err, "UpdateSale: Error from saleService.UpdateSale")
		respondSaleError(c, err, "Failed to update sale.")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// ListSales handles listing sales, optionally filtered by sale type.
func (h *SaleHandler) ListSales(c *gin.Context) {
	var saleType *string
	if raw := c.Query("sale_type"); raw != "" {
		saleType = &raw
	}

	sales, err := h.saleService.ListSales(saleType)
	if err != nil {
		utils.LogError(err, "ListSales: Error from saleService.ListSales")
		respondSaleError(c, err, "Failed to list sales.")
		return
	}
	c.JSON(http.StatusOK, sales)
}

func respondSaleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrSaleNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrStaffNoStation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found or has no station affiliation.", err.Error()))
	case errors.Is(err, services.ErrSaleValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
