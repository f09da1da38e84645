package services

import (
	"database/sql"
	"errors"
	"fmt"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
)

// --- Custom Service Errors for Stations ---
var (
	ErrStationNotFound = errors.New("station not found")
)

// --- Station DTOs ---

// UpdateStationProfileRequest carries optional profile fields; nil fields
// keep their current value.
type UpdateStationProfileRequest struct {
	StationName    *string  `json:"station_name"`
	Address        *string  `json:"address"`
	ContactNumber  *string  `json:"contact_number"`
	Description    *string  `json:"description"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	WorkingDays    []string `json:"working_days"`
	OpeningTime    *string  `json:"opening_time"`
	ClosingTime    *string  `json:"closing_time"`
	ProfilePicture *string  `json:"profile_picture"`
}

// --- StationService Interface ---
type StationService interface {
	GetStationByID(stationID int64) (*models.Station, error)
	ListActiveStations() ([]models.Station, error)
	UpdateProfile(stationID int64, req UpdateStationProfileRequest) (*models.Station, error)
}

// --- stationService Implementation ---
type stationService struct {
	stationRepo repositories.StationRepository
	db          *sql.DB
}

// NewStationService creates a new instance of StationService.
func NewStationService(sr repositories.StationRepository, db *sql.DB) StationService {
	return &stationService{stationRepo: sr, db: db}
}

func (s *stationService) GetStationByID(stationID int64) (*models.Station, error) {
	station, err := s.stationRepo.GetByID(stationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}
	return station, nil
}

// ListActiveStations returns the stations visible to customers.
func (s *stationService) ListActiveStations() ([]models.Station, error) {
	stations, err := s.stationRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	return stations, nil
}

func (s *stationService) UpdateProfile(stationID int64, req UpdateStationProfileRequest) (*models.Station, error) {
	station := &models.Station{
		StationID:      stationID,
		WorkingDays:    req.WorkingDays,
		OpeningTime:    req.OpeningTime,
		ClosingTime:    req.ClosingTime,
		ProfilePicture: req.ProfilePicture,
		Address:        req.Address,
		ContactNumber:  req.ContactNumber,
		Description:    req.Description,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}
	if req.StationName != nil {
		station.StationName = *req.StationName
	}

	updated, err := s.stationRepo.UpdateProfile(s.db, station)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to update station %d: %w", stationID, err)
	}
	return updated, nil
}
