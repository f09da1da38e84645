package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// SaleRepository defines database operations for sale transactions.
type SaleRepository interface {
	Create(executor SQLExecutor, sale *models.Sale) (int64, error)
	GetByID(id int64) (*models.Sale, error)
	Update(executor SQLExecutor, sale *models.Sale) error
	List(saleType *string) ([]models.Sale, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales (product_id, quantity, total, date, payment_method, sale_type, proof, staff_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}
	sale.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		sale.ProductID, sale.Quantity, sale.Total, sale.Date,
		sale.PaymentMethod, sale.SaleType, sale.Proof, sale.StaffID, sale.CreatedAt,
	).Scan(&sale.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: sale references a missing row (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *saleRepository) GetByID(id int64) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `SELECT id, product_id, quantity, total, date, payment_method, sale_type, proof, staff_id, created_at
	          FROM sales WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&sale.ID, &sale.ProductID, &sale.Quantity, &sale.Total, &sale.Date,
		&sale.PaymentMethod, &sale.SaleType, &sale.Proof, &sale.StaffID, &sale.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale %d: %v", ErrDatabaseError, id, err)
	}
	return sale, nil
}

func (r *saleRepository) Update(executor SQLExecutor, sale *models.Sale) error {
	query := `UPDATE sales
	          SET product_id = $1, quantity = $2, total = $3, date = $4,
	              payment_method = $5, sale_type = $6, proof = COALESCE($7, proof)
	          WHERE id = $8`

	result, err := executor.Exec(query,
		sale.ProductID, sale.Quantity, sale.Total, sale.Date,
		sale.PaymentMethod, sale.SaleType, sale.Proof, sale.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating sale %d: %v", ErrDatabaseError, sale.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for sale %d: %v", ErrDatabaseError, sale.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns sales newest first, optionally filtered by sale type.
func (r *saleRepository) List(saleType *string) ([]models.Sale, error) {
	query := `SELECT id, product_id, quantity, total, date, payment_method, sale_type, proof, staff_id, created_at
	          FROM sales`
	args := []interface{}{}
	if saleType != nil && *saleType != "" {
		query += " WHERE sale_type = $1"
		args = append(args, *saleType)
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		var sale models.Sale
		if err := rows.Scan(
			&sale.ID, &sale.ProductID, &sale.Quantity, &sale.Total, &sale.Date,
			&sale.PaymentMethod, &sale.SaleType, &sale.Proof, &sale.StaffID, &sale.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale rows: %v", ErrDatabaseError, err)
	}
	return sales, nil
}
