package handlers

import (
	"errors"
	"net/http"

	"hydrohub_backend/internal/services"
	"hydrohub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StationHandler holds the station service.
type StationHandler struct {
	stationService services.StationService
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(ss services.StationService) *StationHandler {
	return &StationHandler{stationService: ss}
}

// GetStation handles fetching a station profile by ID.
func (h *StationHandler) GetStation(c *gin.Context) {
	stationID, ok := parseIDParam(c, "id", "station")
	if !ok {
		return
	}

	station, err := h.stationService.GetStationByID(stationID)
	if err != nil {
		utils.LogError(err, "GetStation: Error from stationService.GetStationByID")
		respondStationError(c, err, "Failed to fetch station.")
		return
	}
	c.JSON(http.StatusOK, station)
}

// ListStations handles listing active stations for the customer homepage.
func (h *StationHandler) ListStations(c *gin.Context) {
	stations, err := h.stationService.ListActiveStations()
	if err != nil {
		utils.LogError(err, "ListStations: Error from stationService.ListActiveStations")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to list stations.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stations)
}

// UpdateStation handles partial station profile updates.
func (h *StationHandler) UpdateStation(c *gin.Context) {
	stationID, ok := parseIDParam(c, "id", "station")
	if !ok {
		return
	}

	var req services.UpdateStationProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	station, err := h.stationService.UpdateProfile(stationID, req)
	if err != nil {
		utils.LogError(err, "UpdateStation: Error from stationService.UpdateProfile")
		respondStationError(c, err, "Failed to update station.")
		return
	}
	c.JSON(http.StatusOK, station)
}

func respondStationError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrStationNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Station not found.", err.Error()))
		return
	}
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
}
