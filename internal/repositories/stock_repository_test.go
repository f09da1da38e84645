package repositories

import (
	"database/sql"
	"testing"
	"time"

	"hydrohub_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockRepoFixture(t *testing.T) (StockRepository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStockRepository(db), db, mock
}

func TestCreateMovementInsertsMagnitude(t *testing.T) {
	repo, db, mock := stockRepoFixture(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO stocks`).
		WithArgs(int64(100), 12, "delivered", sqlmock.AnyArg(), nil, int64(10), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	movement := &models.StockMovement{
		ProductID: 100,
		Quantity:  12,
		Kind:      models.KindDelivered,
		Date:      now,
		StaffID:   10,
	}
	id, err := repo.CreateMovement(db, movement)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), movement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawAvailableSignedSum(t *testing.T) {
	repo, _, mock := stockRepoFixture(t)

	mock.ExpectQuery(`FROM stocks st\s+JOIN staff sf ON st\.staff_id = sf\.staff_id`).
		WithArgs(int64(100), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(-4))

	raw, err := repo.RawAvailable(100, 1)
	require.NoError(t, err)
	assert.Equal(t, -4, raw, "raw availability is returned unclamped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMovementNotFound(t *testing.T) {
	repo, db, mock := stockRepoFixture(t)

	mock.ExpectExec(`UPDATE stocks`).
		WithArgs(int64(100), 5, "refilled", sqlmock.AnyArg(), nil, int64(10), int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMovement(db, &models.StockMovement{
		ID:        999,
		ProductID: 100,
		Quantity:  5,
		Kind:      models.KindRefilled,
		Date:      time.Now(),
		StaffID:   10,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMovementByIDNotFound(t *testing.T) {
	repo, _, mock := stockRepoFixture(t)

	mock.ExpectQuery(`SELECT id, product_id, amount, stock_type`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetMovementByID(404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByStationFiltersKinds(t *testing.T) {
	repo, _, mock := stockRepoFixture(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "product_id", "amount", "stock_type", "date", "reason", "staff_id", "created_at",
		"name", "type", "size_category", "first_name", "last_name", "station_name",
	}).AddRow(int64(1), int64(100), 6, "delivered", now, nil, int64(10), now,
		"Purified 5 Gallon", "Purified", "5 Gallon", "Pedro", "Garcia", "AquaPure Station")

	mock.ExpectQuery(`AND st\.stock_type = ANY`).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnRows(rows)

	movements, err := repo.ListByStation(1, models.KindDelivered, models.KindReturned)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, models.KindDelivered, movements[0].Kind)
	require.NotNil(t, movements[0].StationName)
	assert.Equal(t, "AquaPure Station", *movements[0].StationName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryScansRows(t *testing.T) {
	repo, _, mock := stockRepoFixture(t)

	rows := sqlmock.NewRows([]string{"id", "name", "type", "size_category", "available"}).
		AddRow(int64(100), "Mineral 1 Gallon", "Mineral", "1 Gallon", -2).
		AddRow(int64(101), "Purified 5 Gallon", "Purified", "5 Gallon", 37)

	mock.ExpectQuery(`GROUP BY p\.id, p\.name`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	summary, err := repo.Summary(1)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, -2, summary[0].Available, "repository reports raw sums, clamping is a service concern")
	assert.Equal(t, 37, summary[1].Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}
