package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// AccountRepository defines database operations for administrator and owner
// accounts.
type AccountRepository interface {
	CreateAdmin(executor SQLExecutor, admin *models.Administrator) (int64, error)
	GetAdminByID(id int64) (*models.Administrator, error)
	GetAdminByUsername(username string) (*models.Administrator, error)
	AdminPhoneExists(executor SQLExecutor, phoneNumber string) (bool, error)
	LatestAdminUsername(executor SQLExecutor) (string, error)
	UpdateAdminPartial(executor SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error

	CreateOwner(executor SQLExecutor, owner *models.Owner) (int64, error)
	GetOwnerByID(id int64) (*models.Owner, error)
	GetOwnerByUsername(username string) (*models.Owner, error)
	OwnerPhoneExists(executor SQLExecutor, phoneNumber string) (bool, error)
	LatestOwnerUsername(executor SQLExecutor) (string, error)
	UpdateOwnerPartial(executor SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error
}

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) CreateAdmin(executor SQLExecutor, admin *models.Administrator) (int64, error) {
	query := `INSERT INTO administrator (first_name, last_name, gender, phone_number, username, password, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING admin_id`

	admin.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		admin.FirstName, admin.LastName, admin.Gender, admin.PhoneNumber,
		admin.Username, admin.PasswordHash, admin.CreatedAt,
	).Scan(&admin.AdminID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating administrator: %v", ErrDatabaseError, err)
	}
	return admin.AdminID, nil
}

func (r *accountRepository) GetAdminByID(id int64) (*models.Administrator, error) {
	admin := &models.Administrator{}
	query := `SELECT admin_id, first_name, last_name, gender, phone_number, username, password, created_at
	          FROM administrator WHERE admin_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&admin.AdminID, &admin.FirstName, &admin.LastName, &admin.Gender,
		&admin.PhoneNumber, &admin.Username, &admin.PasswordHash, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting administrator %d: %v", ErrDatabaseError, id, err)
	}
	return admin, nil
}

func (r *accountRepository) GetAdminByUsername(username string) (*models.Administrator, error) {
	admin := &models.Administrator{}
	query := `SELECT admin_id, first_name, last_name, gender, phone_number, username, password, created_at
	          FROM administrator WHERE username = $1 LIMIT 1`

	err := r.db.QueryRow(query, username).Scan(
		&admin.AdminID, &admin.FirstName, &admin.LastName, &admin.Gender,
		&admin.PhoneNumber, &admin.Username, &admin.PasswordHash, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting administrator by username: %v", ErrDatabaseError, err)
	}
	return admin, nil
}

func (r *accountRepository) AdminPhoneExists(executor SQLExecutor, phoneNumber string) (bool, error) {
	return phoneExists(executor, "administrator", phoneNumber)
}

// LatestAdminUsername returns the admin username carrying the highest
// numeric suffix, or "" when no suffixed username exists yet.
func (r *accountRepository) LatestAdminUsername(executor SQLExecutor) (string, error) {
	query := `SELECT username FROM administrator
	          WHERE username ~ '^[a-zA-Z]+[0-9]+$'
	          ORDER BY CAST(REGEXP_REPLACE(username, '\D', '', 'g') AS INTEGER) DESC
	          LIMIT 1`
	return latestUsername(executor, query)
}

func (r *accountRepository) UpdateAdminPartial(executor SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error {
	query := `UPDATE administrator SET
	            first_name = COALESCE($1, first_name),
	            last_name = COALESCE($2, last_name),
	            phone_number = COALESCE($3, phone_number),
	            password = COALESCE($4, password)
	          WHERE admin_id = $5`
	return execPartialUpdate(executor, query, "administrator", id, firstName, lastName, phoneNumber, passwordHash)
}

func (r *accountRepository) CreateOwner(executor SQLExecutor, owner *models.Owner) (int64, error) {
	query := `INSERT INTO owners (station_id, first_name, last_name, gender, phone_number, username, password, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING owner_id`

	if owner.Status == "" {
		owner.Status = models.StatusActive
	}
	owner.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		owner.StationID, owner.FirstName, owner.LastName, owner.Gender,
		owner.PhoneNumber, owner.Username, owner.PasswordHash, owner.Status, owner.CreatedAt,
	).Scan(&owner.OwnerID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating owner: %v", ErrDatabaseError, err)
	}
	return owner.OwnerID, nil
}

func (r *accountRepository) GetOwnerByID(id int64) (*models.Owner, error) {
	owner := &models.Owner{}
	var stationName sql.NullString
	query := `SELECT o.owner_id, o.station_id, o.first_name, o.last_name, o.gender, o.phone_number,
	                 o.username, o.password, o.status, o.created_at, s.station_name
	          FROM owners o
	          LEFT JOIN water_refilling_stations s ON o.station_id = s.station_id
	          WHERE o.owner_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&owner.OwnerID, &owner.StationID, &owner.FirstName, &owner.LastName, &owner.Gender,
		&owner.PhoneNumber, &owner.Username, &owner.PasswordHash, &owner.Status, &owner.CreatedAt,
		&stationName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting owner %d: %v", ErrDatabaseError, id, err)
	}
	if stationName.Valid {
		owner.StationName = &stationName.String
	}
	return owner, nil
}

func (r *accountRepository) GetOwnerByUsername(username string) (*models.Owner, error) {
	owner := &models.Owner{}
	query := `SELECT owner_id, station_id, first_name, last_name, gender, phone_number, username, password, status, created_at
	          FROM owners WHERE username = $1 LIMIT 1`

	err := r.db.QueryRow(query, username).Scan(
		&owner.OwnerID, &owner.StationID, &owner.FirstName, &owner.LastName, &owner.Gender,
		&owner.PhoneNumber, &owner.Username, &owner.PasswordHash, &owner.Status, &owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting owner by username: %v", ErrDatabaseError, err)
	}
	return owner, nil
}

func (r *accountRepository) OwnerPhoneExists(executor SQLExecutor, phoneNumber string) (bool, error) {
	return phoneExists(executor, "owners", phoneNumber)
}

func (r *accountRepository) LatestOwnerUsername(executor SQLExecutor) (string, error) {
	query := `SELECT username FROM owners
	          WHERE username ~ '^[a-zA-Z]+[0-9]+$'
	          ORDER BY CAST(REGEXP_REPLACE(username, '\D', '', 'g') AS INTEGER) DESC
	          LIMIT 1`
	return latestUsername(executor, query)
}

func (r *accountRepository) UpdateOwnerPartial(executor SQLExecutor, id int64, firstName, lastName, phoneNumber, passwordHash *string) error {
	query := `UPDATE owners SET
	            first_name = COALESCE($1, first_name),
	            last_name = COALESCE($2, last_name),
	            phone_number = COALESCE($3, phone_number),
	            password = COALESCE($4, password)
	          WHERE owner_id = $5`
	return execPartialUpdate(executor, query, "owner", id, firstName, lastName, phoneNumber, passwordHash)
}

// --- shared helpers for the three account tables ---

func phoneExists(executor SQLExecutor, table, phoneNumber string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE phone_number = $1)", table)
	if err := executor.QueryRow(query, phoneNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking phone number in %s: %v", ErrDatabaseError, table, err)
	}
	return exists, nil
}

func latestUsername(executor SQLExecutor, query string) (string, error) {
	var username string
	err := executor.QueryRow(query).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: getting latest username: %v", ErrDatabaseError, err)
	}
	return username, nil
}

func execPartialUpdate(executor SQLExecutor, query, entity string, id int64, args ...*string) error {
	execArgs := make([]interface{}, 0, len(args)+1)
	for _, a := range args {
		execArgs = append(execArgs, a)
	}
	execArgs = append(execArgs, id)

	result, err := executor.Exec(query, execArgs...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating %s %d: %v", ErrDatabaseError, entity, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for %s %d: %v", ErrDatabaseError, entity, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
