package handlers

import (
	"errors"
	"net/http"

	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CustomerHandler holds the customer service.
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(cs services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: cs}
}

// Register handles customer self-registration.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req services.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	customer, err := h.customerService.Register(req)
	if err != nil {
		utils.LogError(err, "Register: Error from customerService.Register")
		respondCustomerError(c, err, "Failed to register customer.")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// Login handles customer authentication by email.
func (h *CustomerHandler) Login(c *gin.Context) {
	var req services.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.customerService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", ""))
			return
		}
		utils.LogError(err, "Login: Error from customerService.Login")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log in.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfile handles fetching a customer profile with its default address.
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetProfile(customerID)
	if err != nil {
		utils.LogError(err, "GetProfile: Error from customerService.GetProfile for customerID "+utils.Int64ToStr(customerID))
		respondCustomerError(c, err, "Failed to fetch customer.")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateProfile handles partial customer profile updates.
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}

	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	customer, err := h.customerService.UpdateProfile(customerID, req)
	if err != nil {
		utils.LogError(err, "UpdateProfile: Error from customerService.UpdateProfile")
		respondCustomerError(c, err, "Failed to update customer.")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ListAddresses handles listing a customer's address book.
func (h *CustomerHandler) ListAddresses(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}

	addresses, err := h.customerService.ListAddresses(customerID)
	if err != nil {
		utils.LogError(err, "ListAddresses: Error from customerService.ListAddresses")
		respondCustomerError(c, err, "Failed to list addresses.")
		return
	}
	c.JSON(http.StatusOK, addresses)
}

// AddAddress handles adding an address to a customer's book.
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}

	var req services.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	address, err := h.customerService.AddAddress(customerID, req)
	if err != nil {
		utils.LogError(err, "AddAddress: Error from customerService.AddAddress")
		respondCustomerError(c, err, "Failed to add address.")
		return
	}
	c.JSON(http.StatusCreated, address)
}

// UpdateAddress handles editing an address book entry.
func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "address_id", "address")
	if !ok {
		return
	}

	var req services.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	address, err := h.customerService.UpdateAddress(customerID, addressID, req)
	if err != nil {
		utils.LogError(err, "UpdateAddress: Error from customerService.UpdateAddress")
		respondCustomerError(c, err, "Failed to update address.")
		return
	}
	c.JSON(http.StatusOK, address)
}

// DeleteAddress handles removing an address book entry.
func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "address_id", "address")
	if !ok {
		return
	}

	if err := h.customerService.DeleteAddress(customerID, addressID); err != nil {
		utils.LogError(err, "DeleteAddress: Error from customerService.DeleteAddress")
		respondCustomerError(c, err, "Failed to delete address.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
}

// SetDefaultAddress handles promoting an address to the customer's default.
func (h *CustomerHandler) SetDefaultAddress(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id", "customer")
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "address_id", "address")
	if !ok {
		return
	}

	if err := h.customerService.SetDefaultAddress(customerID, addressID); err != nil {
		utils.LogError(err, "SetDefaultAddress: Error from customerService.SetDefaultAddress")
		respondCustomerError(c, err, "Failed to set default address.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}

func respondCustomerError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", err.Error()))
	case errors.Is(err, services.ErrAddressNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Address not found.", err.Error()))
	case errors.Is(err, services.ErrEmailTaken):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
