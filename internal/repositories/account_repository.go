package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finoffice-backend/internal/models"
)

const accountColumns = `id, account_id, name, email, mobile_number, password_hash, account_type,
	role, department, can_access_uptodate, industry, portfolio_value, risk_profile,
	account_manager_id, is_active, totp_secret, totp_enabled, created_at, updated_at`

type AccountRepository struct {
	DB *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{DB: db}
}

func scanAccount(row pgx.Row, a *models.Account) error {
	return row.Scan(&a.ID, &a.AccountID, &a.Name, &a.Email, &a.MobileNumber, &a.PasswordHash,
		&a.AccountType, &a.Role, &a.Department, &a.CanAccessUptodate, &a.Industry,
		&a.PortfolioValue, &a.RiskProfile, &a.AccountManagerID, &a.IsActive,
		&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts an account. Uniqueness of account_id and email is enforced
// by the database; a violation surfaces as ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO accounts(account_id, name, email, mobile_number, password_hash, account_type,
			role, department, can_access_uptodate, industry, portfolio_value, risk_profile,
			account_manager_id, is_active)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		a.AccountID, a.Name, a.Email, a.MobileNumber, a.PasswordHash, a.AccountType,
		a.Role, a.Department, a.CanAccessUptodate, a.Industry, a.PortfolioValue, a.RiskProfile,
		a.AccountManagerID, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, id int) (*models.Account, error) {
	var a models.Account
	err := scanAccount(r.DB.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByAccountID looks an account up by its business key.
func (r *AccountRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Account, error) {
	var a models.Account
	err := scanAccount(r.DB.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all accounts, newest first.
func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var a models.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// Update rewrites an account. An empty password hash keeps the stored one.
func (r *AccountRepository) Update(ctx context.Context, a *models.Account) error {
	var err error
	if a.PasswordHash != "" {
		err = r.DB.QueryRow(ctx,
			`UPDATE accounts SET
				account_id = $1, name = $2, email = $3, mobile_number = $4, password_hash = $5,
				account_type = $6, role = $7, department = $8, can_access_uptodate = $9,
				industry = $10, portfolio_value = $11, risk_profile = $12, account_manager_id = $13,
				is_active = $14, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $15
			 RETURNING created_at, updated_at`,
			a.AccountID, a.Name, a.Email, a.MobileNumber, a.PasswordHash,
			a.AccountType, a.Role, a.Department, a.CanAccessUptodate,
			a.Industry, a.PortfolioValue, a.RiskProfile, a.AccountManagerID,
			a.IsActive, a.ID,
		).Scan(&a.CreatedAt, &a.UpdatedAt)
	} else {
		err = r.DB.QueryRow(ctx,
			`UPDATE accounts SET
				account_id = $1, name = $2, email = $3, mobile_number = $4,
				account_type = $5, role = $6, department = $7, can_access_uptodate = $8,
				industry = $9, portfolio_value = $10, risk_profile = $11, account_manager_id = $12,
				is_active = $13, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $14
			 RETURNING created_at, updated_at`,
			a.AccountID, a.Name, a.Email, a.MobileNumber,
			a.AccountType, a.Role, a.Department, a.CanAccessUptodate,
			a.Industry, a.PortfolioValue, a.RiskProfile, a.AccountManagerID,
			a.IsActive, a.ID,
		).Scan(&a.CreatedAt, &a.UpdatedAt)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *AccountRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTOTPSecret stores a pending (not yet enabled) TOTP secret.
func (r *AccountRepository) SetTOTPSecret(ctx context.Context, accountID, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE accounts SET totp_secret = $1, totp_enabled = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE account_id = $2`, secret, accountID)
	return err
}

// EnableTOTP marks the stored secret as verified and active.
func (r *AccountRepository) EnableTOTP(ctx context.Context, accountID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE accounts SET totp_enabled = TRUE, updated_at = CURRENT_TIMESTAMP
		 WHERE account_id = $1`, accountID)
	return err
}

// GetAuthAccount resolves a login id for the auth middleware: the accounts
// table first, then the legacy employees table mapped onto an Account.
func (r *AccountRepository) GetAuthAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := r.GetByAccountID(ctx, accountID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	emp, err := r.GetLegacyEmployee(ctx, accountID)
	if err != nil {
		return nil, err
	}
	role := emp.Role
	dept := emp.Department
	return &models.Account{
		AccountID:         emp.EmployeeID,
		Name:              emp.Name,
		Email:             emp.Email,
		MobileNumber:      emp.MobileNumber,
		PasswordHash:      emp.PasswordHash,
		AccountType:       models.AccountTypeEmployee,
		Role:              &role,
		Department:        &dept,
		CanAccessUptodate: emp.CanAccessUptodate,
		IsActive:          true,
	}, nil
}

// GetLegacyEmployee reads the legacy employees table, used as an auth
// fallback for logins that predate the accounts schema.
func (r *AccountRepository) GetLegacyEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	var e models.Employee
	err := r.DB.QueryRow(ctx,
		`SELECT id, employee_id, name, email, mobile_number, password_hash, role, department, can_access_uptodate
		 FROM employees WHERE employee_id = $1`, employeeID,
	).Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Email, &e.MobileNumber, &e.PasswordHash,
		&e.Role, &e.Department, &e.CanAccessUptodate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
