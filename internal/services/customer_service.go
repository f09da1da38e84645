package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
	"hydrohub_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Customers ---
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrAddressNotFound  = errors.New("address not found")
)

// --- Customer DTOs ---

type RegisterCustomerRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateCustomerRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
}

type AddressRequest struct {
	Label     *string `json:"label"`
	Address   string  `json:"address" binding:"required"`
	Note      *string `json:"note"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDefault bool    `json:"is_default"`
}

// --- CustomerService Interface ---
type CustomerService interface {
	Register(req RegisterCustomerRequest) (*models.Customer, error)
	Login(req CustomerLoginRequest) (*LoginResponse, error)
	GetProfile(customerID int64) (*models.Customer, error)
	UpdateProfile(customerID int64, req UpdateCustomerRequest) (*models.Customer, error)

	ListAddresses(customerID int64) ([]models.CustomerAddress, error)
	AddAddress(customerID int64, req AddressRequest) (*models.CustomerAddress, error)
	UpdateAddress(customerID, addressID int64, req AddressRequest) (*models.CustomerAddress, error)
	DeleteAddress(customerID, addressID int64) error
	SetDefaultAddress(customerID, addressID int64) error
}

// --- customerService Implementation ---
type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB // For managing transactions
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(cr repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{customerRepo: cr, db: db}
}

func (s *customerService) Register(req RegisterCustomerRequest) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.customerRepo.EmailExists(s.db, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hashed,
		Status:       models.StatusActive,
	}
	if _, err := s.customerRepo.Create(s.db, customer); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}
	return customer, nil
}

// Login authenticates a customer by email. Customers carry the fixed
// "customer" role; inactive accounts never match.
func (s *customerService) Login(req CustomerLoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if customer.Status != models.StatusActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateAccessToken(customer.CustomerID, customer.Email, "customer")
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &LoginResponse{Token: token, Role: "customer", Account: customer}, nil
}

// GetProfile returns the customer with their default address attached when
// one exists.
func (s *customerService) GetProfile(customerID int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	address, err := s.customerRepo.GetDefaultAddress(customerID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}
	customer.DefaultAddress = address
	return customer, nil
}

func (s *customerService) UpdateProfile(customerID int64, req UpdateCustomerRequest) (*models.Customer, error) {
	passwordHash, err := optionalHash(req.Password)
	if err != nil {
		return nil, err
	}
	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	customer, err := s.customerRepo.UpdatePartial(s.db, customerID, req.FirstName, req.LastName, email, req.PhoneNumber, passwordHash, nil)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}
	return customer, nil
}

func (s *customerService) ListAddresses(customerID int64) ([]models.CustomerAddress, error) {
	addresses, err := s.customerRepo.ListAddresses(customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// AddAddress appends an address to the customer's book. Marking it default
// clears the previous default inside the same transaction.
func (s *customerService) AddAddress(customerID int64, req AddressRequest) (*models.CustomerAddress, error) {
	if _, err := s.customerRepo.GetByID(customerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start address transaction: %w", err)
	}
	defer tx.Rollback()

	if req.IsDefault {
		if err := s.customerRepo.ClearDefaultAddress(tx, customerID); err != nil {
			return nil, fmt.Errorf("failed to clear previous default address: %w", err)
		}
	}

	address := &models.CustomerAddress{
		CustomerID: customerID,
		Label:      req.Label,
		Address:    req.Address,
		Note:       req.Note,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		IsDefault:  req.IsDefault,
	}
	if _, err := s.customerRepo.CreateAddress(tx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit address transaction: %w", err)
	}
	return address, nil
}

func (s *customerService) UpdateAddress(customerID, addressID int64, req AddressRequest) (*models.CustomerAddress, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start address transaction: %w", err)
	}
	defer tx.Rollback()

	if req.IsDefault {
		if err := s.customerRepo.ClearDefaultAddress(tx, customerID); err != nil {
			return nil, fmt.Errorf("failed to clear previous default address: %w", err)
		}
	}

	address := &models.CustomerAddress{
		AddressID:  addressID,
		CustomerID: customerID,
		Label:      req.Label,
		Address:    req.Address,
		Note:       req.Note,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		IsDefault:  req.IsDefault,
	}
	if err := s.customerRepo.UpdateAddress(tx, address); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address %d: %w", addressID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit address transaction: %w", err)
	}
	return address, nil
}

func (s *customerService) DeleteAddress(customerID, addressID int64) error {
	if err := s.customerRepo.DeleteAddress(s.db, customerID, addressID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("failed to delete address %d: %w", addressID, err)
	}
	return nil
}

// SetDefaultAddress promotes one address to default, demoting the previous
// default in the same transaction so at most one default ever exists.
func (s *customerService) SetDefaultAddress(customerID, addressID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start address transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.customerRepo.ClearDefaultAddress(tx, customerID); err != nil {
		return fmt.Errorf("failed to clear previous default address: %w", err)
	}
	if err := s.customerRepo.SetDefaultAddress(tx, customerID, addressID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("failed to set default address %d: %w", addressID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit address transaction: %w", err)
	}
	return nil
}
