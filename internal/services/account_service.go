package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Accounts ---
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountValidation = errors.New("account validation error")
	ErrPhoneTaken        = errors.New("phone number already registered")
	ErrUnknownStaffType  = errors.New("unknown staff type")
)

// --- Account DTOs ---

type CreateAdminRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type CreateOwnerRequest struct {
	StationName string `json:"station_name" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type CreateStaffRequest struct {
	StationID   int64  `json:"station_id" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Gender      string `json:"gender" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Type        string `json:"type" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

// UpdateAccountRequest carries optional profile fields; nil fields keep
// their current value. A non-nil Password is re-hashed before storage.
type UpdateAccountRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
}

// --- AccountService Interface ---
type AccountService interface {
	CreateAdmin(req CreateAdminRequest) (*models.Administrator, error)
	GetAdminByID(adminID int64) (*models.Administrator, error)
	UpdateAdmin(adminID int64, req UpdateAccountRequest) (*models.Administrator, error)

	CreateOwner(req CreateOwnerRequest) (*models.Owner, error)
	GetOwnerByID(ownerID int64) (*models.Owner, error)
	UpdateOwner(ownerID int64, req UpdateAccountRequest) (*models.Owner, error)

	CreateStaff(req CreateStaffRequest) (*models.StaffMember, error)
	GetStaffByID(staffID int64) (*models.StaffMember, error)
	UpdateStaff(staffID int64, req UpdateAccountRequest) (*models.StaffMember, error)
	ListStaff(stationID *int64) ([]models.StaffMember, error)
	ToggleStaffStatus(staffID int64) (*models.StaffMember, error)
}

// --- accountService Implementation ---
type accountService struct {
	accountRepo repositories.AccountRepository
	staffRepo   repositories.StaffRepository
	stationRepo repositories.StationRepository
	db          *sql.DB // For managing transactions
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	ar repositories.AccountRepository,
	sr repositories.StaffRepository,
	str repositories.StationRepository,
	db *sql.DB,
) AccountService {
	return &accountService{
		accountRepo: ar,
		staffRepo:   sr,
		stationRepo: str,
		db:          db,
	}
}

// nextUsername derives the next sequential username for a prefix from the
// highest suffixed username in the table. Suffixes count up from 000001 and
// are zero-padded to six digits.
func nextUsername(prefix, latest string) string {
	next := 1
	if latest != "" {
		digits := strings.TrimLeftFunc(latest, unicode.IsLetter)
		if n, err := strconv.Atoi(digits); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%06d", prefix, next)
}

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// usernamePrefix lowercases a name and strips everything but letters so the
// generated username always matches the suffix-scan pattern.
func usernamePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CreateAdmin provisions an administrator account. Username generation and
// the insert share one transaction so concurrent provisioning cannot hand
// out the same suffix.
func (s *accountService) CreateAdmin(req CreateAdminRequest) (*models.Administrator, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start admin provisioning transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := s.accountRepo.AdminPhoneExists(tx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}
	if taken {
		return nil, ErrPhoneTaken
	}

	latest, err := s.accountRepo.LatestAdminUsername(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest admin username: %w", err)
	}

	admin := &models.Administrator{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		Username:     nextUsername("admin", latest),
		PasswordHash: hashed,
	}
	if _, err := s.accountRepo.CreateAdmin(tx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit admin provisioning: %w", err)
	}
	return admin, nil
}

func (s *accountService) GetAdminByID(adminID int64) (*models.Administrator, error) {
	admin, err := s.accountRepo.GetAdminByID(adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get administrator: %w", err)
	}
	return admin, nil
}

func (s *accountService) UpdateAdmin(adminID int64, req UpdateAccountRequest) (*models.Administrator, error) {
	passwordHash, err := optionalHash(req.Password)
	if err != nil {
		return nil, err
	}
	err = s.accountRepo.UpdateAdminPartial(s.db, adminID, req.FirstName, req.LastName, req.PhoneNumber, passwordHash)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to update administrator %d: %w", adminID, err)
	}
	return s.GetAdminByID(adminID)
}

// CreateOwner provisions a station owner. The owner's station is resolved by
// name, creating it if it does not exist yet, inside the same transaction as
// the account insert.
func (s *accountService) CreateOwner(req CreateOwnerRequest) (*models.Owner, error) {
	prefix := usernamePrefix(req.LastName)
	if prefix == "" {
		return nil, fmt.Errorf("%w: last name must contain at least one letter", ErrAccountValidation)
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start owner provisioning transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := s.accountRepo.OwnerPhoneExists(tx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}
	if taken {
		return nil, ErrPhoneTaken
	}

	stationID, err := s.stationRepo.FindOrCreateByName(tx, strings.TrimSpace(req.StationName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve station %q: %w", req.StationName, err)
	}

	latest, err := s.accountRepo.LatestOwnerUsername(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest owner username: %w", err)
	}

	owner := &models.Owner{
		StationID:    stationID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		Username:     nextUsername(prefix, latest),
		PasswordHash: hashed,
		Status:       models.StatusActive,
	}
	if _, err := s.accountRepo.CreateOwner(tx, owner); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit owner provisioning: %w", err)
	}
	owner.StationName = &req.StationName
	return owner, nil
}

func (s *accountService) GetOwnerByID(ownerID int64) (*models.Owner, error) {
	owner, err := s.accountRepo.GetOwnerByID(ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return owner, nil
}

func (s *accountService) UpdateOwner(ownerID int64, req UpdateAccountRequest) (*models.Owner, error) {
	passwordHash, err := optionalHash(req.Password)
	if err != nil {
		return nil, err
	}
	err = s.accountRepo.UpdateOwnerPartial(s.db, ownerID, req.FirstName, req.LastName, req.PhoneNumber, passwordHash)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to update owner %d: %w", ownerID, err)
	}
	return s.GetOwnerByID(ownerID)
}

// CreateStaff provisions an onsite or delivery staff account. The username
// prefix is the lowercased staff type.
func (s *accountService) CreateStaff(req CreateStaffRequest) (*models.StaffMember, error) {
	staffType, err := normalizeStaffType(req.Type)
	if err != nil {
		return nil, err
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start staff provisioning transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := s.staffRepo.StaffPhoneExists(tx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone number: %w", err)
	}
	if taken {
		return nil, ErrPhoneTaken
	}

	latest, err := s.staffRepo.LatestStaffUsername(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest staff username: %w", err)
	}

	staff := &models.StaffMember{
		StationID:    req.StationID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		Type:         staffType,
		Username:     nextUsername(strings.ToLower(staffType), latest),
		PasswordHash: hashed,
		Status:       models.StatusActive,
	}
	if _, err := s.staffRepo.CreateStaff(tx, staff); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: station %d does not exist", ErrAccountValidation, req.StationID)
		}
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit staff provisioning: %w", err)
	}
	return staff, nil
}

func (s *accountService) GetStaffByID(staffID int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffByID(staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return staff, nil
}

func (s *accountService) UpdateStaff(staffID int64, req UpdateAccountRequest) (*models.StaffMember, error) {
	passwordHash, err := optionalHash(req.Password)
	if err != nil {
		return nil, err
	}
	err = s.staffRepo.UpdateStaffPartial(s.db, staffID, req.FirstName, req.LastName, req.PhoneNumber, passwordHash)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to update staff member %d: %w", staffID, err)
	}
	return s.GetStaffByID(staffID)
}

func (s *accountService) ListStaff(stationID *int64) ([]models.StaffMember, error) {
	staff, err := s.staffRepo.ListStaff(stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// ToggleStaffStatus flips a staff member between Active and Inactive.
// Inactive staff can no longer log in but their recorded movements remain.
func (s *accountService) ToggleStaffStatus(staffID int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.ToggleStaffStatus(s.db, staffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to toggle staff status %d: %w", staffID, err)
	}
	return staff, nil
}

func normalizeStaffType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case strings.ToLower(models.StaffTypeOnsite):
		return models.StaffTypeOnsite, nil
	case strings.ToLower(models.StaffTypeDelivery):
		return models.StaffTypeDelivery, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStaffType, raw)
	}
}

func optionalHash(plain *string) (*string, error) {
	if plain == nil || *plain == "" {
		return nil, nil
	}
	hashed, err := hashPassword(*plain)
	if err != nil {
		return nil, err
	}
	return &hashed, nil
}
