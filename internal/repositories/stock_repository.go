package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/lib/pq"
)

// StockRepository defines the database operations for the stock ledger.
// The ledger is append-only: entries are inserted and corrected in place,
// never deleted, and availability is always derived by aggregation on read.
type StockRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovementByID(id int64) (*models.StockMovement, error)
	UpdateMovement(executor SQLExecutor, movement *models.StockMovement) error
	RawAvailable(productID, stationID int64) (int, error)
	ListByStation(stationID int64, kinds ...models.MovementKind) ([]models.StockMovement, error)
	ListAll() ([]models.StockMovement, error)
	Summary(stationID int64) ([]models.StockSummaryRow, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stocks (product_id, amount, stock_type, date, reason, staff_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at`

	if movement.Date.IsZero() {
		movement.Date = time.Now()
	}
	movement.CreatedAt = time.Now()

	err := executor.QueryRow(query,
		movement.ProductID, movement.Quantity, string(movement.Kind),
		movement.Date, movement.Reason, movement.StaffID, movement.CreatedAt,
	).Scan(&movement.ID, &movement.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: stock movement references a missing row (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating stock movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *stockRepository) GetMovementByID(id int64) (*models.StockMovement, error) {
	movement := &models.StockMovement{}
	var kind string
	query := `SELECT id, product_id, amount, stock_type, date, reason, staff_id, created_at
	          FROM stocks WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&movement.ID, &movement.ProductID, &movement.Quantity, &kind,
		&movement.Date, &movement.Reason, &movement.StaffID, &movement.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock movement %d: %v", ErrDatabaseError, id, err)
	}
	movement.Kind = models.MovementKind(kind)
	return movement, nil
}

// UpdateMovement fully replaces the fields of an existing ledger entry.
// Unlike profile updates elsewhere, every field is supplied; there are no
// partial COALESCE semantics for ledger corrections.
func (r *stockRepository) UpdateMovement(executor SQLExecutor, movement *models.StockMovement) error {
	query := `UPDATE stocks
	          SET product_id = $1, amount = $2, stock_type = $3, date = $4, reason = $5, staff_id = $6
	          WHERE id = $7`

	result, err := executor.Exec(query,
		movement.ProductID, movement.Quantity, string(movement.Kind),
		movement.Date, movement.Reason, movement.StaffID, movement.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating stock movement %d: %v", ErrDatabaseError, movement.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for stock movement %d: %v", ErrDatabaseError, movement.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RawAvailable returns the unclamped signed sum of all movements for a
// product, restricted to movements recorded by the given station's staff.
// Callers clamp for display; the raw value is kept reachable for audits.
func (r *stockRepository) RawAvailable(productID, stationID int64) (int, error) {
	query := `SELECT
	            COALESCE(SUM(CASE WHEN st.stock_type IN ('refilled','returned') THEN st.amount ELSE 0 END), 0)
	            - COALESCE(SUM(CASE WHEN st.stock_type IN ('discarded','delivered') THEN st.amount ELSE 0 END), 0)
	          FROM stocks st
	          JOIN staff sf ON st.staff_id = sf.staff_id
	          WHERE st.product_id = $1 AND sf.station_id = $2`

	var available int
	if err := r.db.QueryRow(query, productID, stationID).Scan(&available); err != nil {
		return 0, fmt.Errorf("%w: aggregating available stock for product %d: %v", ErrDatabaseError, productID, err)
	}
	return available, nil
}

const movementListSelect = `SELECT st.id, st.product_id, st.amount, st.stock_type, st.date, st.reason, st.staff_id, st.created_at,
	       p.name, p.type, p.size_category,
	       sf.first_name, sf.last_name, ws.station_name
	FROM stocks st
	JOIN products p ON st.product_id = p.id
	JOIN staff sf ON st.staff_id = sf.staff_id
	JOIN water_refilling_stations ws ON sf.station_id = ws.station_id`

// ListByStation returns a station's movements, newest first, optionally
// restricted to a subset of movement kinds.
func (r *stockRepository) ListByStation(stationID int64, kinds ...models.MovementKind) ([]models.StockMovement, error) {
	query := movementListSelect + " WHERE sf.station_id = $1"
	args := []interface{}{stationID}

	if len(kinds) > 0 {
		kindStrs := make([]string, len(kinds))
		for i, k := range kinds {
			kindStrs[i] = string(k)
		}
		query += " AND st.stock_type = ANY($2)"
		args = append(args, pq.Array(kindStrs))
	}
	query += " ORDER BY st.date DESC, st.id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing stock movements for station %d: %v", ErrDatabaseError, stationID, err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListAll returns every movement across all stations, newest first.
func (r *stockRepository) ListAll() ([]models.StockMovement, error) {
	rows, err := r.db.Query(movementListSelect + " ORDER BY st.date DESC, st.id DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: listing all stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows *sql.Rows) ([]models.StockMovement, error) {
	movements := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		var kind string
		var productName, productType, sizeCategory, firstName, lastName, stationName sql.NullString
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Quantity, &kind, &m.Date, &m.Reason, &m.StaffID, &m.CreatedAt,
			&productName, &productType, &sizeCategory,
			&firstName, &lastName, &stationName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		m.Kind = models.MovementKind(kind)
		if productName.Valid {
			m.ProductName = &productName.String
		}
		if productType.Valid {
			m.ProductType = &productType.String
		}
		if sizeCategory.Valid {
			m.SizeCategory = &sizeCategory.String
		}
		if firstName.Valid {
			m.FirstName = &firstName.String
		}
		if lastName.Valid {
			m.LastName = &lastName.String
		}
		if stationName.Valid {
			m.StationName = &stationName.String
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock movements: %v", ErrDatabaseError, err)
	}
	return movements, nil
}

// Summary folds a station's ledger into one raw availability figure per
// product, ordered by product name ascending. Values are not clamped here.
func (r *stockRepository) Summary(stationID int64) ([]models.StockSummaryRow, error) {
	query := `SELECT p.id, p.name, p.type, p.size_category,
	            COALESCE(SUM(CASE WHEN st.stock_type IN ('refilled','returned') THEN st.amount ELSE 0 END), 0)
	            - COALESCE(SUM(CASE WHEN st.stock_type IN ('discarded','delivered') THEN st.amount ELSE 0 END), 0)
	          FROM stocks st
	          JOIN products p ON st.product_id = p.id
	          JOIN staff sf ON st.staff_id = sf.staff_id
	          WHERE sf.station_id = $1
	          GROUP BY p.id, p.name, p.type, p.size_category
	          ORDER BY p.name ASC`

	rows, err := r.db.Query(query, stationID)
	if err != nil {
		return nil, fmt.Errorf("%w: summarizing stock for station %d: %v", ErrDatabaseError, stationID, err)
	}
	defer rows.Close()

	summary := []models.StockSummaryRow{}
	for rows.Next() {
		var row models.StockSummaryRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.ProductType, &row.SizeCategory, &row.Available); err != nil {
			return nil, fmt.Errorf("%w: scanning stock summary row: %v", ErrDatabaseError, err)
		}
		summary = append(summary, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock summary rows: %v", ErrDatabaseError, err)
	}
	return summary, nil
}
