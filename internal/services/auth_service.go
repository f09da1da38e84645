package services

import (
	"errors"
	"fmt"
	"strings"

	"hydrohub_backend/internal/models"
	"hydrohub_backend/internal/repositories"
	"hydrohub_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Auth ---
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// --- Auth DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the token plus a role-shaped account payload.
type LoginResponse struct {
	Token   string      `json:"token"`
	Role    string      `json:"role"`
	Account interface{} `json:"account"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req LoginRequest) (*LoginResponse, error)
}

// --- authService Implementation ---
type authService struct {
	accountRepo repositories.AccountRepository
	staffRepo   repositories.StaffRepository
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ar repositories.AccountRepository, sr repositories.StaffRepository) AuthService {
	return &authService{accountRepo: ar, staffRepo: sr}
}

// Login resolves a username across the administrator, owner and staff tables
// in that order. Inactive staff never match; the caller cannot tell a wrong
// password from a missing or deactivated account.
func (s *authService) Login(req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	if admin, err := s.accountRepo.GetAdminByUsername(username); err == nil {
		return finishLogin(admin.AdminID, admin.Username, "admin", admin.PasswordHash, req.Password, admin)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up administrator: %w", err)
	}

	if owner, err := s.accountRepo.GetOwnerByUsername(username); err == nil {
		if owner.Status != models.StatusActive {
			return nil, ErrInvalidCredentials
		}
		return finishLogin(owner.OwnerID, owner.Username, "owner", owner.PasswordHash, req.Password, owner)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up owner: %w", err)
	}

	if staff, err := s.staffRepo.GetActiveStaffByUsername(username); err == nil {
		role := strings.ToLower(staff.Type)
		return finishLogin(staff.StaffID, staff.Username, role, staff.PasswordHash, req.Password, staff)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up staff member: %w", err)
	}

	return nil, ErrInvalidCredentials
}

func finishLogin(id int64, username, role, passwordHash, password string, account interface{}) (*LoginResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := utils.GenerateAccessToken(id, username, role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &LoginResponse{Token: token, Role: role, Account: account}, nil
}
