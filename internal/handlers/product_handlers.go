package handlers

import (
	"errors"
	"net/http"

	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

// CreateProduct handles adding a product to a station's catalog.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		utils.LogError(err, "CreateProduct: Error from productService.CreateProduct")
		respondProductError(c, err, "Failed to create product.")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProduct handles fetching a product by ID.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		utils.LogError(err, "GetProduct: Error from productService.GetProductByID")
		respondProductError(c, err, "Failed to fetch product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts handles the admin-wide catalog listing.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListAll()
	if err != nil {
		utils.LogError(err, "ListProducts: Error from productService.ListAll")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListStationProducts handles listing a station's catalog, optionally
// filtered by type. Customers only see unarchived entries.
func (h *ProductHandler) ListStationProducts(c *gin.Context) {
	stationID, ok := parseIDParam(c, "station_id", "station")
	if !ok {
		return
	}

	var typeFilter *string
	if raw := c.Query("type"); raw != "" {
		typeFilter = &raw
	}
	activeOnly := c.Query("include_archived") != "true"

	products, err := h.productService.ListForStation(stationID, typeFilter, activeOnly)
	if err != nil {
		utils.LogError(err, "ListStationProducts: Error from productService.ListForStation")
		respondProductError(c, err, "Failed to list products.")
		return
	}
	c.JSON(http.StatusOK, products)
}

// UpdateProduct handles editing a catalog entry.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(productID, req)
	if err != nil {
		utils.LogError(err, "UpdateProduct: Error from productService.UpdateProduct")
		respondProductError(c, err, "Failed to update product.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ToggleArchive handles archiving or restoring a catalog entry.
func (h *ProductHandler) ToggleArchive(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.ToggleArchive(productID)
	if err != nil {
		utils.LogError(err, "ToggleArchive: Error from productService.ToggleArchive")
		respondProductError(c, err, "Failed to toggle product archive.")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles removing a catalog entry without history.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(productID); err != nil {
		utils.LogError(err, "DeleteProduct: Error from productService.DeleteProduct")
		respondProductError(c, err, "Failed to delete product.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func respondProductError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
	case errors.Is(err, services.ErrStationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Station not found.", err.Error()))
	case errors.Is(err, services.ErrDuplicateProduct):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Duplicate product for this station.", err.Error()))
	case errors.Is(err, services.ErrProductInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Product is referenced by sales or stock movements. Archive it instead.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
