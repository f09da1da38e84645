package handlers

import (
	"errors"
	"net/http"

	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AccountHandler holds the account service.
type AccountHandler struct {
	accountService services.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(as services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: as}
}

// CreateAdmin handles provisioning a new administrator account.
func (h *AccountHandler) CreateAdmin(c *gin.Context) {
	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	admin, err := h.accountService.CreateAdmin(req)
	if err != nil {
		utils.LogError(err, "CreateAdmin: Error from accountService.CreateAdmin")
		respondAccountError(c, err, "Failed to create administrator.")
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// GetAdmin handles fetching an administrator by ID.
func (h *AccountHandler) GetAdmin(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id", "admin")
	if !ok {
		return
	}

	admin, err := h.accountService.GetAdminByID(adminID)
	if err != nil {
		utils.LogError(err, "GetAdmin: Error from accountService.GetAdminByID")
		respondAccountError(c, err, "Failed to fetch administrator.")
		return
	}
	c.JSON(http.StatusOK, admin)
}

// UpdateAdmin handles partial administrator profile updates.
func (h *AccountHandler) UpdateAdmin(c *gin.Context) {
	adminID, ok := parseIDParam(c, "id", "admin")
	if !ok {
		return
	}

	var req services.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	admin, err := h.accountService.UpdateAdmin(adminID, req)
	if err != nil {
		utils.LogError(err, "UpdateAdmin: Error from accountService.UpdateAdmin")
		respondAccountError(c, err, "Failed to update administrator.")
		return
	}
	c.JSON(http.StatusOK, admin)
}

// CreateOwner handles provisioning a station owner, creating the station if
// it does not exist yet.
func (h *AccountHandler) CreateOwner(c *gin.Context) {
	var req services.CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	owner, err := h.accountService.CreateOwner(req)
	if err != nil {
		utils.LogError(err, "CreateOwner: Error from accountService.CreateOwner")
		respondAccountError(c, err, "Failed to create owner.")
		return
	}
	c.JSON(http.StatusCreated, owner)
}

// GetOwner handles fetching an owner by ID.
func (h *AccountHandler) GetOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id", "owner")
	if !ok {
		return
	}

	owner, err := h.accountService.GetOwnerByID(ownerID)
	if err != nil {
		utils.LogError(err, "GetOwner: Error from accountService.GetOwnerByID")
		respondAccountError(c, err, "Failed to fetch owner.")
		return
	}
	c.JSON(http.StatusOK, owner)
}

// UpdateOwner handles partial owner profile updates.
func (h *AccountHandler) UpdateOwner(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id", "owner")
	if !ok {
		return
	}

	var req services.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	owner, err := h.accountService.UpdateOwner(ownerID, req)
	if err != nil {
		utils.LogError(err, "UpdateOwner: Error from accountService.UpdateOwner")
		respondAccountError(c, err, "Failed to update owner.")
		return
	}
	c.JSON(http.StatusOK, owner)
}

// CreateStaff handles provisioning an onsite or delivery staff account.
func (h *AccountHandler) CreateStaff(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staff, err := h.accountService.CreateStaff(req)
	if err != nil {
		utils.LogError(err, "CreateStaff: Error from accountService.CreateStaff")
		respondAccountError(c, err, "Failed to create staff member.")
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// GetStaff handles fetching a staff member by ID.
func (h *AccountHandler) GetStaff(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff")
	if !ok {
		return
	}

	staff, err := h.accountService.GetStaffByID(staffID)
	if err != nil {
		utils.LogError(err, "GetStaff: Error from accountService.GetStaffByID")
		respondAccountError(c, err, "Failed to fetch staff member.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// UpdateStaff handles partial staff profile updates.
func (h *AccountHandler) UpdateStaff(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff")
	if !ok {
		return
	}

	var req services.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	staff, err := h.accountService.UpdateStaff(staffID, req)
	if err != nil {
		utils.LogError(err, "UpdateStaff: Error from accountService.UpdateStaff")
		respondAccountError(c, err, "Failed to update staff member.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// ListStaff handles listing staff, optionally filtered by station.
func (h *AccountHandler) ListStaff(c *gin.Context) {
	var stationID *int64
	if raw := c.Query("station_id"); raw != "" {
		id, err := utils.StrToInt64(raw)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid station ID format.", raw))
			return
		}
		stationID = &id
	}

	staff, err := h.accountService.ListStaff(stationID)
	if err != nil {
		utils.LogError(err, "ListStaff: Error from accountService.ListStaff")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list staff.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, staff)
}

// ToggleStaffStatus handles flipping a staff member between active and
// inactive.
func (h *AccountHandler) ToggleStaffStatus(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff")
	if !ok {
		return
	}

	staff, err := h.accountService.ToggleStaffStatus(staffID)
	if err != nil {
		utils.LogError(err, "ToggleStaffStatus: Error from accountService.ToggleStaffStatus")
		respondAccountError(c, err, "Failed to toggle staff status.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

func respondAccountError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Account not found.", err.Error()))
	case errors.Is(err, services.ErrPhoneTaken):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Phone number already registered.", err.Error()))
	case errors.Is(err, services.ErrAccountValidation), errors.Is(err, services.ErrUnknownStaffType):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}
