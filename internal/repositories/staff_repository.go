package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// StaffRepository defines database operations for staff accounts. It also
// serves as the staff-to-station directory used by the stock ledger: a staff
// member with no station affiliation cannot record movements.
type StaffRepository interface {
	CreateStaff(executor SQLExecutor, staff *models.StaffMember) (int64, error)
	GetStaffByID(id int64) (*models.StaffMember, error)
	GetActiveStaffByUsername(username string) (*models.StaffMember, error)
	StaffPhoneExists(executor SQLExecutor, phoneNumber string) (bool, error)
	LatestStaffUsername(executor SQLExecutor) (string, error)
	UpdateStaffPartial(executor SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error
	ListStaff(stationID *int64) ([]models.StaffMember, error)
	ToggleStaffStatus(executor SQLExecutor, id int64) (*models.StaffMember, error)
	StationIDByStaff(staffID int64) (int64, error)
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateStaff(executor SQLExecutor, staff *models.StaffMember) (int64, error) {
	query := `INSERT INTO staff (station_id, first_name, last_name, gender, phone_number, type, username, password, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING staff_id`

	if staff.Status == "" {
		staff.Status = models.StatusActive
	}
	staff.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		staff.StationID, staff.FirstName, staff.LastName, staff.Gender, staff.PhoneNumber,
		staff.Type, staff.Username, staff.PasswordHash, staff.Status, staff.CreatedAt,
	).Scan(&staff.StaffID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			case "foreign_key_violation":
				return 0, fmt.Errorf("%w: station %d does not exist", ErrNotFound, staff.StationID)
			}
		}
		return 0, fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return staff.StaffID, nil
}

func (r *staffRepository) GetStaffByID(id int64) (*models.StaffMember, error) {
	staff := &models.StaffMember{}
	var stationName sql.NullString
	query := `SELECT st.staff_id, st.station_id, st.first_name, st.last_name, st.gender, st.phone_number,
	                 st.type, st.username, st.password, st.status, st.created_at, s.station_name
	          FROM staff st
	          LEFT JOIN water_refilling_stations s ON st.station_id = s.station_id
	          WHERE st.staff_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&staff.StaffID, &staff.StationID, &staff.FirstName, &staff.LastName, &staff.Gender,
		&staff.PhoneNumber, &staff.Type, &staff.Username, &staff.PasswordHash, &staff.Status,
		&staff.CreatedAt, &stationName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff member %d: %v", ErrDatabaseError, id, err)
	}
	if stationName.Valid {
		staff.StationName = &stationName.String
	}
	return staff, nil
}

// GetActiveStaffByUsername resolves login attempts; inactive staff accounts
// cannot sign in.
func (r *staffRepository) GetActiveStaffByUsername(username string) (*models.StaffMember, error) {
	staff := &models.StaffMember{}
	query := `SELECT staff_id, station_id, first_name, last_name, gender, phone_number, type, username, password, status, created_at
	          FROM staff WHERE username = $1 AND LOWER(status) = 'active' LIMIT 1`

	err := r.db.QueryRow(query, username).Scan(
		&staff.StaffID, &staff.StationID, &staff.FirstName, &staff.LastName, &staff.Gender,
		&staff.PhoneNumber, &staff.Type, &staff.Username, &staff.PasswordHash, &staff.Status, &staff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff by username: %v", ErrDatabaseError, err)
	}
	return staff, nil
}

func (r *staffRepository) StaffPhoneExists(executor SQLExecutor, phoneNumber string) (bool, error) {
	return phoneExists(executor, "staff", phoneNumber)
}

func (r *staffRepository) LatestStaffUsername(executor SQLExecutor) (string, error) {
	query := `SELECT username FROM staff
	          WHERE username ~ '^[a-zA-Z]+[0-9]+$'
	          ORDER BY CAST(REGEXP_REPLACE(username, '\D', '', 'g') AS INTEGER) DESC
	          LIMIT 1`
	return latestUsername(executor, query)
}

func (r *staffRepository) UpdateStaffPartial(executor SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error {
	query := `UPDATE staff SET
	            first_name = COALESCE($1, first_name),
	            last_name = COALESCE($2, last_name),
	            phone_number = COALESCE($3, phone_number),
	            password = COALESCE($4, password)
	          WHERE staff_id = $5`
	return execPartialUpdate(executor, query, "staff member", id, firstName, lastName, phoneNumber, passwordHash)
}

// ListStaff returns all staff members, optionally filtered to one station,
// ordered by staff id ascending.
func (r *staffRepository) ListStaff(stationID *int64) ([]models.StaffMember, error) {
	query := `SELECT st.staff_id, st.station_id, st.first_name, st.last_name, st.gender, st.phone_number,
	                 st.type, st.username, st.status, st.created_at, s.station_name
	          FROM staff st
	          LEFT JOIN water_refilling_stations s ON st.station_id = s.station_id`
	args := []interface{}{}
	if stationID != nil {
		query += " WHERE st.station_id = $1"
		args = append(args, *stationID)
	}
	query += " ORDER BY st.staff_id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	staffList := []models.StaffMember{}
	for rows.Next() {
		var staff models.StaffMember
		var stationName sql.NullString
		if err := rows.Scan(
			&staff.StaffID, &staff.StationID, &staff.FirstName, &staff.LastName, &staff.Gender,
			&staff.PhoneNumber, &staff.Type, &staff.Username, &staff.Status, &staff.CreatedAt,
			&stationName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		if stationName.Valid {
			staff.StationName = &stationName.String
		}
		staffList = append(staffList, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}
	return staffList, nil
}

// ToggleStaffStatus flips a staff account between Active and Inactive and
// returns the updated record.
func (r *staffRepository) ToggleStaffStatus(executor SQLExecutor, id int64) (*models.StaffMember, error) {
	query := `UPDATE staff
	          SET status = CASE WHEN status = $1 THEN $2 ELSE $1 END
	          WHERE staff_id = $3
	          RETURNING staff_id, station_id, first_name, last_name, gender, phone_number, type, username, status, created_at`

	staff := &models.StaffMember{}
	err := executor.QueryRow(query, models.StatusActive, models.StatusInactive, id).Scan(
		&staff.StaffID, &staff.StationID, &staff.FirstName, &staff.LastName, &staff.Gender,
		&staff.PhoneNumber, &staff.Type, &staff.Username, &staff.Status, &staff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: toggling status for staff member %d: %v", ErrDatabaseError, id, err)
	}
	return staff, nil
}

// StationIDByStaff resolves the station a staff member belongs to. Unknown
// staff resolves to ErrNotFound so ledger writes fail closed.
func (r *staffRepository) StationIDByStaff(staffID int64) (int64, error) {
	var stationID int64
	err := r.db.QueryRow("SELECT station_id FROM staff WHERE staff_id = $1", staffID).Scan(&stationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: resolving station for staff member %d: %v", ErrDatabaseError, staffID, err)
	}
	return stationID, nil
}
