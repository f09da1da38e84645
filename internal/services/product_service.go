package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
)

// --- Custom Service Errors for Products ---
var (
	ErrDuplicateProduct = errors.New("product with the same name, type and size already exists for this station")
	ErrProductInUse     = errors.New("product is referenced by sales or stock movements")
)

// --- Product DTOs ---

type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	SizeCategory string  `json:"size_category" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Photo        *string `json:"photo"`
	StationID    int64   `json:"station_id" binding:"required"`
}

type UpdateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	SizeCategory string  `json:"size_category" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Photo        *string `json:"photo"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	ListForStation(stationID int64, typeFilter *string, activeOnly bool) ([]models.Product, error)
	ListAll() ([]models.Product, error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	ToggleArchive(productID int64) (*models.Product, error)
	DeleteProduct(productID int64) error
}

// --- productService Implementation ---
type productService struct {
	productRepo repositories.ProductRepository
	stationRepo repositories.StationRepository
	db          *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(pr repositories.ProductRepository, sr repositories.StationRepository, db *sql.DB) ProductService {
	return &productService{productRepo: pr, stationRepo: sr, db: db}
}

// CreateProduct adds a catalog entry. Name, type and size category are
// matched case-insensitively when guarding against duplicates within a
// station.
func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if _, err := s.stationRepo.GetByID(req.StationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	duplicate, err := s.productRepo.DuplicateExists(s.db, req.Name, req.Type, req.SizeCategory, req.StationID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate product: %w", err)
	}
	if duplicate {
		return nil, ErrDuplicateProduct
	}

	product := &models.Product{
		Name:         strings.TrimSpace(req.Name),
		Type:         strings.TrimSpace(req.Type),
		SizeCategory: strings.TrimSpace(req.SizeCategory),
		Price:        req.Price,
		Photo:        req.Photo,
		StationID:    req.StationID,
	}
	if _, err := s.productRepo.Create(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateProduct
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) ListForStation(stationID int64, typeFilter *string, activeOnly bool) ([]models.Product, error) {
	products, err := s.productRepo.ListForStation(stationID, typeFilter, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for station %d: %w", stationID, err)
	}
	return products, nil
}

func (s *productService) ListAll() ([]models.Product, error) {
	products, err := s.productRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	existing, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	duplicate, err := s.productRepo.DuplicateExists(s.db, req.Name, req.Type, req.SizeCategory, existing.StationID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate product: %w", err)
	}
	if duplicate {
		return nil, ErrDuplicateProduct
	}

	product := &models.Product{
		ID:           productID,
		Name:         strings.TrimSpace(req.Name),
		Type:         strings.TrimSpace(req.Type),
		SizeCategory: strings.TrimSpace(req.SizeCategory),
		Price:        req.Price,
		Photo:        req.Photo,
		StationID:    existing.StationID,
	}
	if err := s.productRepo.Update(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	return s.GetProductByID(productID)
}

// ToggleArchive flips a product's archived flag. Archived products stay out
// of customer-facing listings but keep their ledger history.
func (s *productService) ToggleArchive(productID int64) (*models.Product, error) {
	product, err := s.productRepo.ToggleArchive(s.db, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to toggle product archive %d: %w", productID, err)
	}
	return product, nil
}

// DeleteProduct removes a product outright. Products referenced by sales or
// movements cannot be deleted; archive them instead.
func (s *productService) DeleteProduct(productID int64) error {
	if err := s.productRepo.Delete(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		if errors.Is(err, repositories.ErrRowReferenced) {
			return ErrProductInUse
		}
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	return nil
}
