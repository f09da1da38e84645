package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// CustomerRepository defines database operations for customer accounts and
// their address books.
type CustomerRepository interface {
	Create(executor SQLExecutor, customer *models.Customer) (int64, error)
	GetByID(id int64) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	EmailExists(executor SQLExecutor, email string) (bool, error)
	UpdatePartial(executor SQLExecutor, id int64, firstName, lastName, email, phoneNumber, passwordHash, status *string) (*models.Customer, error)

	ListAddresses(customerID int64) ([]models.CustomerAddress, error)
	GetDefaultAddress(customerID int64) (*models.CustomerAddress, error)
	CreateAddress(executor SQLExecutor, address *models.CustomerAddress) (int64, error)
	UpdateAddress(executor SQLExecutor, address *models.CustomerAddress) error
	DeleteAddress(executor SQLExecutor, customerID, addressID int64) error
	ClearDefaultAddress(executor SQLExecutor, customerID int64) error
	SetDefaultAddress(executor SQLExecutor, customerID, addressID int64) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers (first_name, last_name, email, phone_number, password, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING customer_id`

	if customer.Status == "" {
		customer.Status = models.StatusActive
	}
	customer.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		customer.FirstName, customer.LastName, customer.Email, customer.PhoneNumber,
		customer.PasswordHash, customer.Status, customer.CreatedAt,
	).Scan(&customer.CustomerID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return customer.CustomerID, nil
}

func (r *customerRepository) GetByID(id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT customer_id, first_name, last_name, email, phone_number, password, status, created_at
	          FROM customers WHERE customer_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&customer.CustomerID, &customer.FirstName, &customer.LastName, &customer.Email,
		&customer.PhoneNumber, &customer.PasswordHash, &customer.Status, &customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer %d: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

func (r *customerRepository) GetByEmail(email string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT customer_id, first_name, last_name, email, phone_number, password, status, created_at
	          FROM customers WHERE email = $1 LIMIT 1`

	err := r.db.QueryRow(query, email).Scan(
		&customer.CustomerID, &customer.FirstName, &customer.LastName, &customer.Email,
		&customer.PhoneNumber, &customer.PasswordHash, &customer.Status, &customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by email: %v", ErrDatabaseError, err)
	}
	return customer, nil
}

func (r *customerRepository) EmailExists(executor SQLExecutor, email string) (bool, error) {
	var exists bool
	if err := executor.QueryRow("SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)", email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking customer email: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

func (r *customerRepository) UpdatePartial(executor SQLExecutor, id int64, firstName, lastName, email, phoneNumber, passwordHash, status *string) (*models.Customer, error) {
	query := `UPDATE customers SET
	            first_name = COALESCE($1, first_name),
	            last_name = COALESCE($2, last_name),
	            email = COALESCE($3, email),
	            phone_number = COALESCE($4, phone_number),
	            password = COALESCE($5, password),
	            status = COALESCE($6, status)
	          WHERE customer_id = $7
	          RETURNING customer_id, first_name, last_name, email, phone_number, password, status, created_at`

	customer := &models.Customer{}
	err := executor.QueryRow(query, firstName, lastName, email, phoneNumber, passwordHash, status, id).Scan(
		&customer.CustomerID, &customer.FirstName, &customer.LastName, &customer.Email,
		&customer.PhoneNumber, &customer.PasswordHash, &customer.Status, &customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: updating customer %d: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

func (r *customerRepository) ListAddresses(customerID int64) ([]models.CustomerAddress, error) {
	query := `SELECT address_id, customer_id, label, address, note, latitude, longitude, is_default, created_at
	          FROM customer_addresses
	          WHERE customer_id = $1
	          ORDER BY is_default DESC, created_at DESC`

	rows, err := r.db.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing addresses for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	defer rows.Close()

	addresses := []models.CustomerAddress{}
	for rows.Next() {
		var address models.CustomerAddress
		if err := rows.Scan(
			&address.AddressID, &address.CustomerID, &address.Label, &address.Address,
			&address.Note, &address.Latitude, &address.Longitude, &address.IsDefault, &address.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning customer address: %v", ErrDatabaseError, err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating customer addresses: %v", ErrDatabaseError, err)
	}
	return addresses, nil
}

func (r *customerRepository) GetDefaultAddress(customerID int64) (*models.CustomerAddress, error) {
	address := &models.CustomerAddress{}
	query := `SELECT address_id, customer_id, label, address, note, latitude, longitude, is_default, created_at
	          FROM customer_addresses
	          WHERE customer_id = $1 AND is_default = TRUE
	          LIMIT 1`

	err := r.db.QueryRow(query, customerID).Scan(
		&address.AddressID, &address.CustomerID, &address.Label, &address.Address,
		&address.Note, &address.Latitude, &address.Longitude, &address.IsDefault, &address.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting default address for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return address, nil
}

func (r *customerRepository) CreateAddress(executor SQLExecutor, address *models.CustomerAddress) (int64, error) {
	query := `INSERT INTO customer_addresses (customer_id, label, address, note, latitude, longitude, is_default, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING address_id`

	address.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		address.CustomerID, address.Label, address.Address, address.Note,
		address.Latitude, address.Longitude, address.IsDefault, address.CreatedAt,
	).Scan(&address.AddressID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: customer %d does not exist", ErrNotFound, address.CustomerID)
		}
		return 0, fmt.Errorf("%w: creating customer address: %v", ErrDatabaseError, err)
	}
	return address.AddressID, nil
}

func (r *customerRepository) UpdateAddress(executor SQLExecutor, address *models.CustomerAddress) error {
	query := `UPDATE customer_addresses
	          SET label = $1, address = $2, note = $3, latitude = $4, longitude = $5
	          WHERE address_id = $6 AND customer_id = $7`

	result, err := executor.Exec(query,
		address.Label, address.Address, address.Note, address.Latitude, address.Longitude,
		address.AddressID, address.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating address %d: %v", ErrDatabaseError, address.AddressID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for address %d: %v", ErrDatabaseError, address.AddressID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) DeleteAddress(executor SQLExecutor, customerID, addressID int64) error {
	result, err := executor.Exec(
		"DELETE FROM customer_addresses WHERE address_id = $1 AND customer_id = $2",
		addressID, customerID,
	)
	if err != nil {
		return fmt.Errorf("%w: deleting address %d: %v", ErrDatabaseError, addressID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for deleting address %d: %v", ErrDatabaseError, addressID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) ClearDefaultAddress(executor SQLExecutor, customerID int64) error {
	_, err := executor.Exec("UPDATE customer_addresses SET is_default = FALSE WHERE customer_id = $1", customerID)
	if err != nil {
		return fmt.Errorf("%w: clearing default address for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return nil
}

func (r *customerRepository) SetDefaultAddress(executor SQLExecutor, customerID, addressID int64) error {
	result, err := executor.Exec(
		"UPDATE customer_addresses SET is_default = TRUE WHERE address_id = $1 AND customer_id = $2",
		addressID, customerID,
	)
	if err != nil {
		return fmt.Errorf("%w: setting default address %d: %v", ErrDatabaseError, addressID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for default address %d: %v", ErrDatabaseError, addressID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
