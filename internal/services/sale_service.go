package services

import (
	"database/sql"
	"errors"
	"fmt"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
	"hydrohub_backend/pkg/utils"
)

// --- Custom Service Errors for Sales ---
var (
	ErrSaleNotFound   = errors.New("sale not found")
	ErrSaleValidation = errors.New("sale validation error")
)

// --- Sale DTOs ---

// CreateSaleRequest records a new sale. Proof is a stored file reference;
// upload mechanics live outside this service.
type CreateSaleRequest struct {
	ProductID     int64   `json:"product_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	Total         float64 `json:"total" binding:"required"`
	Date          string  `json:"date"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	SaleType      string  `json:"sale_type" binding:"required"`
	Proof         *string `json:"proof"`
	StaffID       int64   `json:"staff_id" binding:"required"`
}

// UpdateSaleRequest fully replaces a sale's fields.
type UpdateSaleRequest struct {
	ProductID     int64   `json:"product_id" binding:"required"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	Total         float64 `json:"total" binding:"required"`
	Date          string  `json:"date" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	SaleType      string  `json:"sale_type" binding:"required"`
	Proof         *string `json:"proof"`
}

// --- SaleService Interface ---
type SaleService interface {
	CreateSale(req CreateSaleRequest) (*models.Sale, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	UpdateSale(saleID int64, req UpdateSaleRequest) (*models.Sale, error)
	ListSales(saleType *string) ([]models.Sale, error)
}

// --- saleService Implementation ---
type saleService struct {
	saleRepo    repositories.SaleRepository
	stockRepo   repositories.StockRepository
	staffRepo   repositories.StaffRepository
	productRepo repositories.ProductRepository
	db          *sql.DB // For managing transactions
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(
	sr repositories.SaleRepository,
	str repositories.StockRepository,
	sfr repositories.StaffRepository,
	pr repositories.ProductRepository,
	db *sql.DB,
) SaleService {
	return &saleService{
		saleRepo:    sr,
		stockRepo:   str,
		staffRepo:   sfr,
		productRepo: pr,
		db:          db,
	}
}

func (s *saleService) validateSale(quantity int, saleType string, productID, staffID int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrSaleValidation)
	}
	if !models.ValidSaleType(saleType) {
		return fmt.Errorf("%w: sale type must be %q or %q", ErrSaleValidation, models.SaleTypeOnsite, models.SaleTypeDelivery)
	}
	if _, err := s.staffRepo.StationIDByStaff(staffID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNoStation
		}
		return fmt.Errorf("failed to resolve staff station: %w", err)
	}
	exists, err := s.productRepo.Exists(productID)
	if err != nil {
		return fmt.Errorf("failed to check product existence: %w", err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return nil
}

// CreateSale records a sale. A delivery sale also appends a delivered stock
// movement; both inserts share one transaction so the ledger never drifts
// from the sales record.
func (s *saleService) CreateSale(req CreateSaleRequest) (*models.Sale, error) {
	if err := s.validateSale(req.Quantity, req.SaleType, req.ProductID, req.StaffID); err != nil {
		return nil, err
	}
	date, err := parseMovementDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sale date", ErrSaleValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start sale transaction: %w", err)
	}
	defer tx.Rollback()

	sale := &models.Sale{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Total:         req.Total,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		SaleType:      req.SaleType,
		Proof:         req.Proof,
		StaffID:       req.StaffID,
	}
	if _, err := s.saleRepo.Create(tx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if sale.SaleType == models.SaleTypeDelivery {
		movement := &models.StockMovement{
			ProductID: sale.ProductID,
			Quantity:  sale.Quantity,
			Kind:      models.KindDelivered,
			Date:      sale.Date,
			Reason:    utils.NewNullString(fmt.Sprintf("Sale %d delivery", sale.ID)),
			StaffID:   sale.StaffID,
		}
		if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
			return nil, fmt.Errorf("failed to record delivered movement for sale %d: %w", sale.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale transaction: %w", err)
	}
	return sale, nil
}

func (s *saleService) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

// UpdateSale replaces a sale's fields. The prior delivery effect is reversed
// by a compensating returned movement and the new state re-applied with a
// fresh delivered movement; earlier ledger entries are never mutated or
// deleted. All statements share one transaction: if any compensating insert
// fails, the edit fails with it.
func (s *saleService) UpdateSale(saleID int64, req UpdateSaleRequest) (*models.Sale, error) {
	oldSale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to fetch sale for update: %w", err)
	}
	if err := s.validateSale(req.Quantity, req.SaleType, req.ProductID, oldSale.StaffID); err != nil {
		return nil, err
	}
	date, err := parseMovementDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sale date", ErrSaleValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start sale update transaction: %w", err)
	}
	defer tx.Rollback()

	if oldSale.SaleType == models.SaleTypeDelivery {
		compensation := &models.StockMovement{
			ProductID: oldSale.ProductID,
			Quantity:  oldSale.Quantity,
			Kind:      models.KindReturned,
			Date:      date,
			Reason:    utils.NewNullString(fmt.Sprintf("Sale %d edited, reversing prior delivery", oldSale.ID)),
			StaffID:   oldSale.StaffID,
		}
		if _, err := s.stockRepo.CreateMovement(tx, compensation); err != nil {
			return nil, fmt.Errorf("failed to record compensating movement for sale %d: %w", saleID, err)
		}
	}

	sale := &models.Sale{
		ID:            saleID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Total:         req.Total,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		SaleType:      req.SaleType,
		Proof:         req.Proof,
		StaffID:       oldSale.StaffID,
	}
	if err := s.saleRepo.Update(tx, sale); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to update sale %d: %w", saleID, err)
	}

	if sale.SaleType == models.SaleTypeDelivery {
		movement := &models.StockMovement{
			ProductID: sale.ProductID,
			Quantity:  sale.Quantity,
			Kind:      models.KindDelivered,
			Date:      date,
			Reason:    utils.NewNullString(fmt.Sprintf("Sale %d delivery", sale.ID)),
			StaffID:   sale.StaffID,
		}
		if _, err := s.stockRepo.CreateMovement(tx, movement); err != nil {
			return nil, fmt.Errorf("failed to record delivered movement for sale %d: %w", saleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale update transaction: %w", err)
	}
	return s.GetSaleByID(saleID)
}

func (s *saleService) ListSales(saleType *string) ([]models.Sale, error) {
	if saleType != nil && *saleType != "" && !models.ValidSaleType(*saleType) {
		return nil, fmt.Errorf("%w: unknown sale type %q", ErrSaleValidation, *saleType)
	}
	sales, err := s.saleRepo.List(saleType)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
