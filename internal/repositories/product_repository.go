package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines database operations for the product catalog.
type ProductRepository interface {
	Create(executor SQLExecutor, product *models.Product) (int64, error)
	GetByID(id int64) (*models.Product, error)
	Exists(id int64) (bool, error)
	DuplicateExists(executor SQLExecutor, name, productType, sizeCategory string, stationID, excludeID int64) (bool, error)
	ListForStation(stationID int64, typeFilter *string, activeOnly bool) ([]models.Product, error)
	ListAll() ([]models.Product, error)
	Update(executor SQLExecutor, product *models.Product) error
	ToggleArchive(executor SQLExecutor, id int64) (*models.Product, error)
	Delete(executor SQLExecutor, id int64) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, type, size_category, price, photo, station_id, is_archived, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	          RETURNING id`

	product.CreatedAt = time.Now()
	err := executor.QueryRow(query,
		product.Name, product.Type, product.SizeCategory, product.Price,
		product.Photo, product.StationID, product.CreatedAt,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: station %d does not exist", ErrNotFound, product.StationID)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT id, name, type, size_category, price, photo, station_id, is_archived, created_at
	          FROM products WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Type, &product.SizeCategory, &product.Price,
		&product.Photo, &product.StationID, &product.IsArchived, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) Exists(id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow("SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking product %d: %v", ErrDatabaseError, id, err)
	}
	return exists, nil
}

// DuplicateExists reports whether another product with the same
// name/type/size already exists in the station. excludeID skips the product
// being updated; pass 0 when creating.
func (r *productRepository) DuplicateExists(executor SQLExecutor, name, productType, sizeCategory string, stationID, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM products
	            WHERE LOWER(name) = LOWER($1)
	              AND LOWER(type) = LOWER($2)
	              AND LOWER(size_category) = LOWER($3)
	              AND station_id = $4
	              AND id != $5)`
	if err := executor.QueryRow(query, name, productType, sizeCategory, stationID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking duplicate product: %v", ErrDatabaseError, err)
	}
	return exists, nil
}

// ListForStation returns a station's products ordered by name. With
// activeOnly set, archived products are excluded; typeFilter optionally
// narrows to one product type.
func (r *productRepository) ListForStation(stationID int64, typeFilter *string, activeOnly bool) ([]models.Product, error) {
	query := `SELECT id, name, type, size_category, price, photo, station_id, is_archived, created_at
	          FROM products WHERE station_id = $1`
	args := []interface{}{stationID}
	argCount := 2

	if activeOnly {
		query += " AND is_archived = FALSE"
	}
	if typeFilter != nil && *typeFilter != "" {
		query += fmt.Sprintf(" AND LOWER(type) = LOWER($%d)", argCount)
		args = append(args, *typeFilter)
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing products for station %d: %v", ErrDatabaseError, stationID, err)
	}
	defer rows.Close()
	return scanProducts(rows, false)
}

// ListAll returns every product across stations joined with the station
// name, for the admin view.
func (r *productRepository) ListAll() ([]models.Product, error) {
	query := `SELECT p.id, p.name, p.type, p.size_category, p.price, p.photo, p.station_id, p.is_archived, p.created_at,
	                 s.station_name
	          FROM products p
	          LEFT JOIN water_refilling_stations s ON p.station_id = s.station_id
	          ORDER BY s.station_name, p.id DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing all products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanProducts(rows, true)
}

func scanProducts(rows *sql.Rows, withStationName bool) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		var stationName sql.NullString
		dest := []interface{}{
			&product.ID, &product.Name, &product.Type, &product.SizeCategory, &product.Price,
			&product.Photo, &product.StationID, &product.IsArchived, &product.CreatedAt,
		}
		if withStationName {
			dest = append(dest, &stationName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		if stationName.Valid {
			product.StationName = &stationName.String
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

func (r *productRepository) Update(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, type = $2, size_category = $3, price = $4, photo = COALESCE($5, photo)
	          WHERE id = $6`

	result, err := executor.Exec(query,
		product.Name, product.Type, product.SizeCategory, product.Price, product.Photo, product.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating product %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for product %d: %v", ErrDatabaseError, product.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleArchive flips the archived flag and returns the updated product.
func (r *productRepository) ToggleArchive(executor SQLExecutor, id int64) (*models.Product, error) {
	query := `UPDATE products SET is_archived = NOT is_archived
	          WHERE id = $1
	          RETURNING id, name, type, size_category, price, photo, station_id, is_archived, created_at`

	product := &models.Product{}
	err := executor.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Type, &product.SizeCategory, &product.Price,
		&product.Photo, &product.StationID, &product.IsArchived, &product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: toggling archive for product %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec("DELETE FROM products WHERE id = $1", id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: product %d is referenced by sales or stock movements (constraint: %s)", ErrRowReferenced, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting product %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for deleting product %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
