package services

import (
	"context"
	"errors"
	"fmt"

	"finoffice-backend/internal/auth"
	"finoffice-backend/internal/cache"
	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
)

// ErrInvalidCredentials is returned for any failed login, without
// distinguishing unknown ids from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountStore is the persistence surface the account service needs.
// *repositories.AccountRepository implements it.
type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id int) (*models.Account, error)
	GetByAccountID(ctx context.Context, accountID string) (*models.Account, error)
	GetAuthAccount(ctx context.Context, accountID string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, id int) error
	GetLegacyEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
}

type AccountService struct {
	Store      AccountStore
	JWTManager *auth.JWTManager
}

func NewAccountService(store AccountStore, jwtManager *auth.JWTManager) *AccountService {
	return &AccountService{
		Store:      store,
		JWTManager: jwtManager,
	}
}

func authUserFromAccount(a *models.Account) *models.AuthUser {
	user := &models.AuthUser{
		ID:           a.AccountID,
		Name:         a.Name,
		Email:        a.Email,
		MobileNumber: a.MobileNumber,
		AccountType:  a.AccountType,
	}
	if a.IsEmployeeLike() {
		user.Role = a.Role
		user.Department = a.Department
		can := a.CanAccessUptodate
		user.CanAccessUptodate = &can
	} else {
		user.Industry = a.Industry
		user.PortfolioValue = a.PortfolioValue
		user.RiskProfile = a.RiskProfile
		user.AccountManagerID = a.AccountManagerID
	}
	return user
}

// Authenticate checks credentials for POST /api/auth. Employee-type logins
// check the accounts table first and fall back to the legacy employees
// table; client-type logins check client accounts only.
func (s *AccountService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.ID == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: id and password are required", ErrInvalidInput)
	}

	switch req.Type {
	case "employee":
		return s.authenticateEmployee(ctx, req)
	case "client":
		return s.authenticateClient(ctx, req)
	default:
		return nil, fmt.Errorf("%w: invalid user type", ErrInvalidInput)
	}
}

func (s *AccountService) authenticateEmployee(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.Store.GetAuthAccount(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !account.IsEmployeeLike() {
		return nil, ErrInvalidCredentials
	}

	if err := s.verifyPassword(ctx, account, req); err != nil {
		return nil, err
	}

	if account.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(account)
		if err != nil {
			return nil, err
		}
		return &models.AuthResponse{Success: true, TOTPRequired: true, TempToken: tempToken}, nil
	}

	return s.issueToken(account)
}

func (s *AccountService) authenticateClient(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	account, err := s.Store.GetByAccountID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if account.AccountType != models.AccountTypeClient {
		return nil, ErrInvalidCredentials
	}

	if err := s.verifyPassword(ctx, account, req); err != nil {
		return nil, err
	}

	return s.issueToken(account)
}

func (s *AccountService) verifyPassword(ctx context.Context, account *models.Account, req *models.LoginRequest) error {
	if !account.IsActive {
		return ErrInvalidCredentials
	}

	// bcrypt is the expensive step; a cache hit skips it for repeated logins.
	if cache.GetCachedAuth(ctx, account.AccountID, req.Password) {
		return nil
	}

	if !auth.VerifyPassword(account.PasswordHash, req.Password) {
		return ErrInvalidCredentials
	}

	cache.CacheAuth(ctx, account.AccountID, req.Password)
	return nil
}

func (s *AccountService) issueToken(account *models.Account) (*models.AuthResponse, error) {
	token, err := s.JWTManager.GenerateToken(account)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Success: true,
		User:    authUserFromAccount(account),
		Token:   token,
	}, nil
}

// ValidatePendingLogin checks a 2FA temp token and returns the account it was
// issued for.
func (s *AccountService) ValidatePendingLogin(tempToken string) (string, error) {
	claims, err := s.JWTManager.ValidateTempToken(tempToken)
	if err != nil {
		return "", err
	}
	return claims.AccountID, nil
}

// CompleteTOTPLogin exchanges a verified temp token for the real session
// token.
func (s *AccountService) CompleteTOTPLogin(ctx context.Context, accountID string) (*models.AuthResponse, error) {
	account, err := s.Store.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.issueToken(account)
}

func accountFromRequest(req *models.CreateAccountRequest) *models.Account {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return &models.Account{
		AccountID:         req.AccountID,
		Name:              req.Name,
		Email:             req.Email,
		MobileNumber:      req.MobileNumber,
		AccountType:       req.AccountType,
		Role:              req.Role,
		Department:        req.Department,
		CanAccessUptodate: req.CanAccessUptodate,
		Industry:          req.Industry,
		PortfolioValue:    req.PortfolioValue,
		RiskProfile:       req.RiskProfile,
		AccountManagerID:  req.AccountManagerID,
		IsActive:          isActive,
	}
}

func validAccountType(t string) bool {
	switch t {
	case models.AccountTypeAdmin, models.AccountTypeManager, models.AccountTypeEmployee, models.AccountTypeClient:
		return true
	}
	return false
}

// CreateAccount validates, hashes the password and inserts. Duplicate
// account_id/email comes back as repositories.ErrDuplicate from the unique
// constraints, never from a read-then-write check.
func (s *AccountService) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	if req.AccountID == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: account_id, name, email and password are required", ErrInvalidInput)
	}
	if !validAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, req.AccountType)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := accountFromRequest(req)
	account.PasswordHash = hash

	if err := s.Store.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.Store.List(ctx)
}

// UpdateAccount rewrites an account; an empty password keeps the stored
// hash.
func (s *AccountService) UpdateAccount(ctx context.Context, id int, req *models.UpdateAccountRequest) (*models.Account, error) {
	if req.AccountID == "" || req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: account_id, name and email are required", ErrInvalidInput)
	}
	if !validAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, req.AccountType)
	}

	account := accountFromRequest(req)
	account.ID = id

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}

	if err := s.Store.Update(ctx, account); err != nil {
		return nil, err
	}

	if req.Password != "" {
		cache.InvalidateAuth(ctx, account.AccountID)
	}
	return account, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id int) error {
	return s.Store.Delete(ctx, id)
}

var _ AccountStore = (*repositories.AccountRepository)(nil)
