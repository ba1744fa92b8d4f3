package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finoffice-backend/internal/models"
)

const completedClientColumns = `id, original_entry_id, serial_number, name, email, mobile_number,
	address, purpose, employee_id, employee_name, date, completion_date, notes, image_url`

type CompletedClientRepository struct {
	DB *pgxpool.Pool
}

func NewCompletedClientRepository(db *pgxpool.Pool) *CompletedClientRepository {
	return &CompletedClientRepository{DB: db}
}

func scanCompletedClient(row pgx.Row, cc *models.CompletedClient) error {
	return row.Scan(&cc.ID, &cc.OriginalEntryID, &cc.SerialNumber, &cc.Name, &cc.Email,
		&cc.MobileNumber, &cc.Address, &cc.Purpose, &cc.EmployeeID, &cc.EmployeeName,
		&cc.Date, &cc.CompletionDate, &cc.Notes, &cc.ImageURL)
}

// List returns all archive rows, newest completion first.
func (r *CompletedClientRepository) List(ctx context.Context) ([]*models.CompletedClient, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+completedClientColumns+`
		 FROM completed_clients
		 ORDER BY completion_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.CompletedClient
	for rows.Next() {
		var cc models.CompletedClient
		if err := scanCompletedClient(rows, &cc); err != nil {
			return nil, err
		}
		clients = append(clients, &cc)
	}
	return clients, rows.Err()
}

// GetByOriginalEntry returns the archive row for one original entry id.
func (r *CompletedClientRepository) GetByOriginalEntry(ctx context.Context, originalEntryID int) (*models.CompletedClient, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+completedClientColumns+`
		 FROM completed_clients WHERE original_entry_id = $1`, originalEntryID)

	var cc models.CompletedClient
	if err := scanCompletedClient(row, &cc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cc, nil
}

// Archive inserts one archive row keyed by original_entry_id. A retried
// request hits the conflict clause and gets the existing row back, so the
// operation is idempotent.
func (r *CompletedClientRepository) Archive(ctx context.Context, cc *models.CompletedClient) (*models.CompletedClient, error) {
	var inserted models.CompletedClient
	err := scanCompletedClient(r.DB.QueryRow(ctx,
		`INSERT INTO completed_clients(original_entry_id, serial_number, name, email, mobile_number,
			address, purpose, employee_id, employee_name, date, notes, image_url)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (original_entry_id) DO NOTHING
		 RETURNING `+completedClientColumns,
		cc.OriginalEntryID, cc.SerialNumber, cc.Name, cc.Email, cc.MobileNumber,
		cc.Address, cc.Purpose, cc.EmployeeID, cc.EmployeeName, cc.Date, cc.Notes, cc.ImageURL,
	), &inserted)

	if err == nil {
		return &inserted, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to archive completed client: %w", err)
	}

	// Conflict: the row already exists, return it.
	return r.GetByOriginalEntry(ctx, cc.OriginalEntryID)
}

// CountByEmployee returns how many archived completions one employee has.
func (r *CompletedClientRepository) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM completed_clients WHERE employee_id = $1`, employeeID).Scan(&n)
	return n, err
}
