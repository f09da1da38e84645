package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
)

// --- Custom Service Errors for Stock ---
var (
	ErrStockValidation     = errors.New("stock movement validation error")
	ErrInvalidMovementKind = errors.New("invalid stock movement kind")
	ErrStaffNoStation      = errors.New("staff member not found or has no station")
	ErrProductNotFound     = errors.New("product not found")
	ErrMovementNotFound    = errors.New("stock movement not found")
)

// --- Stock DTOs ---

// RecordMovementRequest creates a new ledger entry.
type RecordMovementRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Quantity  int     `json:"amount" binding:"required"`
	Kind      string  `json:"stock_type" binding:"required"`
	Date      string  `json:"date"`
	Reason    *string `json:"reason"`
	StaffID   int64   `json:"staff_id" binding:"required"`
}

// UpdateMovementRequest corrects an existing entry. Every field is supplied;
// ledger corrections do not use partial semantics.
type UpdateMovementRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Quantity  int     `json:"amount" binding:"required"`
	Kind      string  `json:"stock_type" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Reason    *string `json:"reason"`
	StaffID   int64   `json:"staff_id" binding:"required"`
}

// AvailableRequest asks for the current availability of a product, scoped to
// the station of the requesting staff member.
type AvailableRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	StaffID   int64 `json:"staff_id" binding:"required"`
}

// --- StockService Interface ---

// StockService is the stock ledger and availability engine. The ledger is an
// append-only event log; availability is always derived by folding the log
// on read, never by maintaining a counter.
type StockService interface {
	RecordMovement(req RecordMovementRequest) (*models.StockMovement, error)
	UpdateMovement(movementID int64, req UpdateMovementRequest) (*models.StockMovement, error)
	Available(productID, stationID int64) (int, error)
	AvailableForStaff(req AvailableRequest) (int, error)
	MovementsByKind(stationID int64, kind string) ([]models.StockMovement, error)
	Summary(stationID int64) ([]models.StockSummaryRow, error)
	ListAll() ([]models.StockMovement, error)
	ListForStation(stationID int64) ([]models.StockMovement, error)
	ListForStaff(staffID int64) ([]models.StockMovement, error)
	ListDeliveryForStaff(staffID int64) ([]models.StockMovement, error)
}

// --- stockService Implementation ---
type stockService struct {
	stockRepo   repositories.StockRepository
	staffRepo   repositories.StaffRepository
	productRepo repositories.ProductRepository
	db          repositories.SQLExecutor
}

// NewStockService creates a new instance of StockService. db is the executor
// used for single-statement repository calls; multi-statement flows that
// touch the ledger (sale compensation) own their transactions in SaleService.
func NewStockService(
	sr repositories.StockRepository,
	str repositories.StaffRepository,
	pr repositories.ProductRepository,
	db repositories.SQLExecutor,
) StockService {
	return &stockService{
		stockRepo:   sr,
		staffRepo:   str,
		productRepo: pr,
		db:          db,
	}
}

// movementDateFormats accepted on the wire, tried in order.
var movementDateFormats = []string{time.RFC3339, "2006-01-02"}

func parseMovementDate(dateStr string) (time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return time.Now(), nil
	}
	for _, layout := range movementDateFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q is not ISO-8601", ErrStockValidation, dateStr)
}

func (s *stockService) validateMovement(quantity int, kindStr string) (models.MovementKind, error) {
	if quantity <= 0 {
		return "", fmt.Errorf("%w: amount must be a positive integer", ErrStockValidation)
	}
	kind, ok := models.ParseMovementKind(kindStr)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMovementKind, kindStr)
	}
	return kind, nil
}

func (s *stockService) RecordMovement(req RecordMovementRequest) (*models.StockMovement, error) {
	kind, err := s.validateMovement(req.Quantity, req.Kind)
	if err != nil {
		return nil, err
	}
	date, err := parseMovementDate(req.Date)
	if err != nil {
		return nil, err
	}

	// Attribution fails closed: an unknown staff member or one without a
	// station cannot append to the ledger.
	if _, err := s.staffRepo.StationIDByStaff(req.StaffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNoStation
		}
		return nil, fmt.Errorf("failed to resolve staff station: %w", err)
	}

	exists, err := s.productRepo.Exists(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	movement := &models.StockMovement{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Kind:      kind,
		Date:      date,
		Reason:    req.Reason,
		StaffID:   req.StaffID,
	}
	if _, err := s.stockRepo.CreateMovement(s.db, movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}
	return movement, nil
}

func (s *stockService) UpdateMovement(movementID int64, req UpdateMovementRequest) (*models.StockMovement, error) {
	kind, err := s.validateMovement(req.Quantity, req.Kind)
	if err != nil {
		return nil, err
	}
	date, err := parseMovementDate(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.stockRepo.GetMovementByID(movementID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to fetch stock movement for update: %w", err)
	}

	exists, err := s.productRepo.Exists(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	movement := &models.StockMovement{
		ID:        movementID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Kind:      kind,
		Date:      date,
		Reason:    req.Reason,
		StaffID:   req.StaffID,
	}
	if err := s.stockRepo.UpdateMovement(s.db, movement); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, fmt.Errorf("failed to update stock movement: %w", err)
	}
	// No recomputation step follows: availability is derived on read.
	return s.stockRepo.GetMovementByID(movementID)
}

// Available returns the derived availability for a product within a station,
// clamped at zero for display. The stored ledger is never rewritten to
// enforce non-negativity.
func (s *stockService) Available(productID, stationID int64) (int, error) {
	raw, err := s.stockRepo.RawAvailable(productID, stationID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute available stock: %w", err)
	}
	return clampAvailable(raw), nil
}

func (s *stockService) AvailableForStaff(req AvailableRequest) (int, error) {
	stationID, err := s.staffRepo.StationIDByStaff(req.StaffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return 0, ErrStaffNoStation
		}
		return 0, fmt.Errorf("failed to resolve staff station: %w", err)
	}
	return s.Available(req.ProductID, stationID)
}

func (s *stockService) MovementsByKind(stationID int64, kindStr string) ([]models.StockMovement, error) {
	kind, ok := models.ParseMovementKind(kindStr)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMovementKind, kindStr)
	}
	movements, err := s.stockRepo.ListByStation(stationID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s movements: %w", kind, err)
	}
	return movements, nil
}

func (s *stockService) Summary(stationID int64) ([]models.StockSummaryRow, error) {
	rows, err := s.stockRepo.Summary(stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize stock: %w", err)
	}
	for i := range rows {
		rows[i].Available = clampAvailable(rows[i].Available)
	}
	return rows, nil
}

func (s *stockService) ListAll() ([]models.StockMovement, error) {
	movements, err := s.stockRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (s *stockService) ListForStation(stationID int64) ([]models.StockMovement, error) {
	movements, err := s.stockRepo.ListByStation(stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements for station: %w", err)
	}
	return movements, nil
}

func (s *stockService) ListForStaff(staffID int64) ([]models.StockMovement, error) {
	stationID, err := s.staffRepo.StationIDByStaff(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNoStation
		}
		return nil, fmt.Errorf("failed to resolve staff station: %w", err)
	}
	return s.ListForStation(stationID)
}

// ListDeliveryForStaff returns the delivered and returned movements of the
// staff member's station, the view delivery staff work from.
func (s *stockService) ListDeliveryForStaff(staffID int64) ([]models.StockMovement, error) {
	stationID, err := s.staffRepo.StationIDByStaff(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNoStation
		}
		return nil, fmt.Errorf("failed to resolve staff station: %w", err)
	}
	movements, err := s.stockRepo.ListByStation(stationID, models.KindDelivered, models.KindReturned)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery movements: %w", err)
	}
	return movements, nil
}

// clampAvailable applies the display policy for negative ledger balances.
func clampAvailable(raw int) int {
	if raw < 0 {
		return 0
	}
	return raw
}
