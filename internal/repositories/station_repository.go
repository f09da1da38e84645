package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// StationRepository defines database operations for water refilling stations.
type StationRepository interface {
	FindOrCreateByName(executor SQLExecutor, stationName string) (int64, error)
	GetByID(id int64) (*models.Station, error)
	ListActive() ([]models.Station, error)
	UpdateProfile(executor SQLExecutor, station *models.Station) (*models.Station, error)
}

type stationRepository struct {
	db *sql.DB
}

// NewStationRepository creates a new instance of StationRepository.
func NewStationRepository(db *sql.DB) StationRepository {
	return &stationRepository{db: db}
}

// FindOrCreateByName returns the id of the station with the given name,
// creating it as Active when it does not exist yet. Run inside the owner
// registration transaction.
func (r *stationRepository) FindOrCreateByName(executor SQLExecutor, stationName string) (int64, error) {
	var stationID int64
	insert := `INSERT INTO water_refilling_stations (station_name, status, created_at)
	           VALUES ($1, $2, $3)
	           ON CONFLICT (station_name) DO NOTHING
	           RETURNING station_id`

	err := executor.QueryRow(insert, stationName, models.StatusActive, time.Now()).Scan(&stationID)
	if err == nil {
		return stationID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: creating station %q: %v", ErrDatabaseError, stationName, err)
	}

	// Conflict path: the station already exists, look it up.
	err = executor.QueryRow("SELECT station_id FROM water_refilling_stations WHERE station_name = $1", stationName).Scan(&stationID)
	if err != nil {
		return 0, fmt.Errorf("%w: resolving station %q: %v", ErrDatabaseError, stationName, err)
	}
	return stationID, nil
}

func (r *stationRepository) GetByID(id int64) (*models.Station, error) {
	station := &models.Station{}
	var workingDays pq.StringArray
	query := `SELECT station_id, station_name, address, contact_number, description, latitude, longitude,
	                 working_days, opening_time, closing_time, profile_picture, status, created_at
	          FROM water_refilling_stations WHERE station_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&station.StationID, &station.StationName, &station.Address, &station.ContactNumber,
		&station.Description, &station.Latitude, &station.Longitude,
		&workingDays, &station.OpeningTime, &station.ClosingTime,
		&station.ProfilePicture, &station.Status, &station.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting station %d: %v", ErrDatabaseError, id, err)
	}
	station.WorkingDays = workingDays
	return station, nil
}

// ListActive returns all active stations ordered by name, for the customer
// homepage.
func (r *stationRepository) ListActive() ([]models.Station, error) {
	query := `SELECT station_id, station_name, address, contact_number, description, profile_picture, status, created_at
	          FROM water_refilling_stations
	          WHERE status = $1
	          ORDER BY station_name ASC`

	rows, err := r.db.Query(query, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("%w: listing active stations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	stations := []models.Station{}
	for rows.Next() {
		var station models.Station
		if err := rows.Scan(
			&station.StationID, &station.StationName, &station.Address, &station.ContactNumber,
			&station.Description, &station.ProfilePicture, &station.Status, &station.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning station: %v", ErrDatabaseError, err)
		}
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating station rows: %v", ErrDatabaseError, err)
	}
	return stations, nil
}

// UpdateProfile applies a partial station profile update. Absent fields keep
// their current values.
func (r *stationRepository) UpdateProfile(executor SQLExecutor, station *models.Station) (*models.Station, error) {
	query := `UPDATE water_refilling_stations SET
	            station_name = COALESCE($1, station_name),
	            address = COALESCE($2, address),
	            contact_number = COALESCE($3, contact_number),
	            description = COALESCE($4, description),
	            latitude = COALESCE($5, latitude),
	            longitude = COALESCE($6, longitude),
	            working_days = COALESCE($7, working_days),
	            opening_time = COALESCE($8, opening_time),
	            closing_time = COALESCE($9, closing_time),
	            profile_picture = COALESCE($10, profile_picture)
	          WHERE station_id = $11
	          RETURNING station_id, station_name, address, contact_number, description, latitude, longitude,
	                    working_days, opening_time, closing_time, profile_picture, status, created_at`

	var stationName *string
	if station.StationName != "" {
		stationName = &station.StationName
	}
	var workingDays interface{}
	if station.WorkingDays != nil {
		workingDays = pq.Array(station.WorkingDays)
	}

	updated := &models.Station{}
	var updatedDays pq.StringArray
	err := executor.QueryRow(query,
		stationName, station.Address, station.ContactNumber, station.Description,
		station.Latitude, station.Longitude, workingDays,
		station.OpeningTime, station.ClosingTime, station.ProfilePicture,
		station.StationID,
	).Scan(
		&updated.StationID, &updated.StationName, &updated.Address, &updated.ContactNumber,
		&updated.Description, &updated.Latitude, &updated.Longitude,
		&updatedDays, &updated.OpeningTime, &updated.ClosingTime,
		&updated.ProfilePicture, &updated.Status, &updated.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating station %d: %v", ErrDatabaseError, station.StationID, err)
	}
	updated.WorkingDays = updatedDays
	return updated, nil
}
