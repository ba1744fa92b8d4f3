package models

import "time"

// Account types
const (
	AccountTypeAdmin    = "admin"
	AccountTypeManager  = "manager"
	AccountTypeEmployee = "employee"
	AccountTypeClient   = "client"
)

type Account struct {
	ID           int    `json:"id"`
	AccountID    string `json:"account_id"` // Business key (login id), unique
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	PasswordHash string `json:"-"`
	AccountType  string `json:"account_type"` // 'admin', 'manager', 'employee', 'client'

	// Employee-like fields (admin/manager/employee)
	Role              *string `json:"role,omitempty"`
	Department        *string `json:"department,omitempty"`
	CanAccessUptodate bool    `json:"can_access_uptodate"`

	// Client fields
	Industry         *string  `json:"industry,omitempty"`
	PortfolioValue   *float64 `json:"portfolio_value,omitempty"`
	RiskProfile      *string  `json:"risk_profile,omitempty"`
	AccountManagerID *string  `json:"account_manager_id,omitempty"`

	IsActive    bool      `json:"is_active"`
	TOTPSecret  string    `json:"-"`
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsEmployeeLike reports whether the account can log into the employee portal.
func (a *Account) IsEmployeeLike() bool {
	switch a.AccountType {
	case AccountTypeAdmin, AccountTypeManager, AccountTypeEmployee:
		return true
	}
	return false
}

// CreateAccountRequest represents the request body for creating an account
type CreateAccountRequest struct {
	AccountID         string   `json:"account_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	MobileNumber      string   `json:"mobile_number"`
	Password          string   `json:"password"`
	AccountType       string   `json:"account_type"`
	Role              *string  `json:"role"`
	Department        *string  `json:"department"`
	CanAccessUptodate bool     `json:"can_access_uptodate"`
	Industry          *string  `json:"industry"`
	PortfolioValue    *float64 `json:"portfolio_value"`
	RiskProfile       *string  `json:"risk_profile"`
	AccountManagerID  *string  `json:"account_manager_id"`
	IsActive          *bool    `json:"is_active"`
}

// UpdateAccountRequest mirrors CreateAccountRequest; an empty password keeps the
// existing hash.
type UpdateAccountRequest = CreateAccountRequest

// Employee is a row of the legacy employees table, kept for auth fallback and
// display-name resolution.
type Employee struct {
	ID                int    `json:"id"`
	EmployeeID        string `json:"employee_id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	MobileNumber      string `json:"mobile_number"`
	PasswordHash      string `json:"-"`
	Role              string `json:"role"`
	Department        string `json:"department"`
	CanAccessUptodate bool   `json:"can_access_uptodate"`
}

// LoginRequest is the body of POST /api/auth.
type LoginRequest struct {
	Type     string `json:"type"` // 'employee' or 'client'
	ID       string `json:"id"`
	Password string `json:"password"`
}

// AuthUser is the user payload returned on successful authentication. Field set
// varies by account type, so optional fields are pointers.
type AuthUser struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	MobileNumber      string   `json:"mobileNumber"`
	AccountType       string   `json:"accountType"`
	Role              *string  `json:"role,omitempty"`
	Department        *string  `json:"department,omitempty"`
	CanAccessUptodate *bool    `json:"canAccessUptodate,omitempty"`
	Industry          *string  `json:"industry,omitempty"`
	PortfolioValue    *float64 `json:"portfolioValue,omitempty"`
	RiskProfile       *string  `json:"riskProfile,omitempty"`
	AccountManagerID  *string  `json:"accountManagerId,omitempty"`
}

type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *AuthUser `json:"user,omitempty"`
	Token   string    `json:"token,omitempty"`
	// TOTPRequired signals that the caller must complete the second factor via
	// /api/auth/verify-totp using TempToken.
	TOTPRequired bool   `json:"totp_required,omitempty"`
	TempToken    string `json:"temp_token,omitempty"`
}

// VerifyTOTPRequest is the body of POST /api/auth/verify-totp.
type VerifyTOTPRequest struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}
