package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"abst-data/internal/domain"
	"abst-data/internal/repository"

	"go.uber.org/zap"
)

// AuthService account registration, credential checks and facility access.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)

	// Login accepts either precomputed hashes or the raw account/password
	// pair and verifies them against the stored hashes.
	Login(ctx context.Context, req LoginRequest) (*domain.User, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID string) error

	ListFacilityAccess(ctx context.Context, userID string) ([]*domain.FacilityAccess, error)
	ListPendingFacilityAccess(ctx context.Context) ([]*domain.FacilityAccess, error)
	RequestFacilityAccess(ctx context.Context, userID, facilityID, role string) (string, error)
	ReviewFacilityAccess(ctx context.Context, accessID, status string) error
	CanAccessFacility(ctx context.Context, user *domain.User, facilityID string) (bool, error)
}

type authService struct {
	usersRepo repository.UsersRepository
	logger    *zap.Logger
}

func NewAuthService(usersRepo repository.UsersRepository, logger *zap.Logger) AuthService {
	return &authService{usersRepo: usersRepo, logger: logger}
}

// ============================================
// Hashing
// ============================================

// Credential hashing matches the front-end rules:
//   accountHash  = sha256(lower(account))
//   passwordHash = sha256(lower(account) + ":" + password)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func normalizeAccount(account string) string {
	return strings.TrimSpace(strings.ToLower(account))
}

func HashAccount(account string) string {
	return sha256Hex(normalizeAccount(account))
}

func HashAccountPassword(account, password string) string {
	return sha256Hex(normalizeAccount(account) + ":" + password)
}

// ============================================
// Request DTOs
// ============================================

type RegisterRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Account      string `json:"account,omitempty"`
	Password     string `json:"password,omitempty"`
	AccountHash  string `json:"accountHash,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

// ============================================
// Implementation
// ============================================

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	account := normalizeAccount(req.Account)
	if account == "" || req.Password == "" {
		return nil, fmt.Errorf("account and password are required")
	}

	accountHash := HashAccount(account)
	if _, err := s.usersRepo.GetUserByAccountHash(ctx, accountHash); err == nil {
		return nil, fmt.Errorf("account already exists")
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	id, err := s.usersRepo.CreateUser(ctx, &domain.User{
		Account:      account,
		AccountHash:  accountHash,
		PasswordHash: HashAccountPassword(account, req.Password),
		Role:         req.Role,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", id), zap.String("account", account))
	return s.usersRepo.GetUser(ctx, id)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	accountHash := strings.TrimSpace(req.AccountHash)
	passwordHash := strings.TrimSpace(req.PasswordHash)
	if accountHash == "" && req.Account != "" {
		accountHash = HashAccount(req.Account)
		passwordHash = HashAccountPassword(req.Account, req.Password)
	}
	if accountHash == "" || passwordHash == "" {
		s.logger.Warn("login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent))
		return nil, fmt.Errorf("missing credentials")
	}

	user, err := s.usersRepo.GetUserByAccountHash(ctx, accountHash)
	if err != nil {
		if err == repository.ErrNotFound {
			s.logger.Warn("login failed: invalid credentials",
				zap.String("ip_address", req.IPAddress),
				zap.String("reason", "unknown_account"))
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, err
	}

	if user.PasswordHash != passwordHash {
		s.logger.Warn("login failed: invalid credentials",
			zap.String("user_id", user.UserID),
			zap.String("ip_address", req.IPAddress),
			zap.String("reason", "password_mismatch"))
		return nil, fmt.Errorf("invalid credentials")
	}
	if user.Status != "active" {
		s.logger.Warn("login failed: account not active",
			zap.String("user_id", user.UserID),
			zap.String("status", user.Status))
		return nil, fmt.Errorf("user is not active")
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.UserID),
		zap.String("ip_address", req.IPAddress))
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.usersRepo.GetUser(ctx, userID)
}

func (s *authService) DeactivateUser(ctx context.Context, userID string) error {
	return s.usersRepo.UpdateUserStatus(ctx, userID, "inactive")
}

// ============================================
// Facility access
// ============================================

func (s *authService) ListFacilityAccess(ctx context.Context, userID string) ([]*domain.FacilityAccess, error) {
	return s.usersRepo.ListFacilityAccess(ctx, userID)
}

func (s *authService) ListPendingFacilityAccess(ctx context.Context) ([]*domain.FacilityAccess, error) {
	return s.usersRepo.ListPendingFacilityAccess(ctx)
}

func (s *authService) RequestFacilityAccess(ctx context.Context, userID, facilityID, role string) (string, error) {
	if role == "" {
		role = domain.UserRoleStaff
	}
	id, err := s.usersRepo.RequestFacilityAccess(ctx, &domain.FacilityAccess{
		UserID:     userID,
		FacilityID: facilityID,
		Role:       role,
		Status:     domain.AccessStatusPending,
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("facility access requested",
		zap.String("access_id", id),
		zap.String("user_id", userID),
		zap.String("facility_id", facilityID))
	return id, nil
}

func (s *authService) ReviewFacilityAccess(ctx context.Context, accessID, status string) error {
	if status != domain.AccessStatusApproved && status != domain.AccessStatusDenied {
		return fmt.Errorf("invalid review status: %s", status)
	}
	if err := s.usersRepo.ReviewFacilityAccess(ctx, accessID, status); err != nil {
		return err
	}
	s.logger.Info("facility access reviewed", zap.String("access_id", accessID), zap.String("status", status))
	return nil
}

// CanAccessFacility admins bypass the grant table.
func (s *authService) CanAccessFacility(ctx context.Context, user *domain.User, facilityID string) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	return s.usersRepo.HasFacilityAccess(ctx, user.UserID, facilityID)
}
