package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"finoffice-backend/internal/models"
)

// employeeNameSQL resolves an employee_id to a display name across both the
// accounts table and the legacy employees table, falling back to the raw id.
const employeeNameSQL = `COALESCE(a.name, e.name, pe.employee_id)`

const entryColumns = `pe.id, pe.serial_number, pe.name, pe.email, pe.mobile_number, pe.address,
	pe.purpose, pe.employee_id, pe.date, pe.status, pe.notes, pe.image_url, pe.created_at, pe.updated_at`

type EntryRepository struct {
	DB *pgxpool.Pool
}

func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{DB: db}
}

func scanEntry(row pgx.Row, e *models.Entry) error {
	return row.Scan(&e.ID, &e.SerialNumber, &e.Name, &e.Email, &e.MobileNumber, &e.Address,
		&e.Purpose, &e.EmployeeID, &e.Date, &e.Status, &e.Notes, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
}

// Create inserts an entry, assigning serial_number as max+1 within the
// employee's list inside the INSERT itself. The UNIQUE(employee_id,
// serial_number) constraint closes the read-then-write window: on a concurrent
// collision the losing insert is retried with a fresh serial.
func (r *EntryRepository) Create(ctx context.Context, e *models.Entry) error {
	const query = `
		WITH next_serial AS (
			SELECT COALESCE(MAX(serial_number), 0) + 1 AS serial
			FROM performance_entries
			WHERE employee_id = $1
		)
		INSERT INTO performance_entries(serial_number, name, email, mobile_number, address, purpose, employee_id, date, status, notes, image_url)
		SELECT serial, $2, $3, $4, $5, $6, $1, $7, $8, $9, $10
		FROM next_serial
		RETURNING id, serial_number, date, status, created_at, updated_at
	`

	const maxAttempts = 3
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := r.DB.QueryRow(ctx, query,
			e.EmployeeID,
			e.Name,
			e.Email,
			e.MobileNumber,
			e.Address,
			e.Purpose,
			e.Date,
			e.Status,
			e.Notes,
			e.ImageURL,
		).Scan(&e.ID, &e.SerialNumber, &e.Date, &e.Status, &e.CreatedAt, &e.UpdatedAt)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("failed to create entry: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("failed to assign serial number: %w", lastErr)
}

// Get returns one entry scoped by id and owning employee.
func (r *EntryRepository) Get(ctx context.Context, id int, employeeID string) (*models.Entry, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+entryColumns+`
		 FROM performance_entries pe
		 WHERE pe.id = $1 AND pe.employee_id = $2`, id, employeeID)

	var e models.Entry
	if err := scanEntry(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListByEmployee returns the active entries for one employee. Completed
// entries are excluded here by status, independent of the archive step.
func (r *EntryRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*models.Entry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM performance_entries pe
		 WHERE pe.employee_id = $1 AND pe.status <> 'completed'
		 ORDER BY pe.date DESC, pe.serial_number DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		var e models.Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) listWithEmployee(ctx context.Context, where string, args ...interface{}) ([]*models.EntryWithEmployee, error) {
	query := `SELECT ` + entryColumns + `, ` + employeeNameSQL + ` AS employee_name
		 FROM performance_entries pe
		 LEFT JOIN accounts a ON pe.employee_id = a.account_id
		 LEFT JOIN employees e ON pe.employee_id = e.employee_id
		 ` + where + `
		 ORDER BY pe.date DESC, pe.serial_number DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.EntryWithEmployee
	for rows.Next() {
		var e models.EntryWithEmployee
		err := rows.Scan(&e.ID, &e.SerialNumber, &e.Name, &e.Email, &e.MobileNumber, &e.Address,
			&e.Purpose, &e.EmployeeID, &e.Date, &e.Status, &e.Notes, &e.ImageURL,
			&e.CreatedAt, &e.UpdatedAt, &e.EmployeeName)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ListAll returns the active cross-employee read model with resolved employee
// names, completed entries excluded.
func (r *EntryRepository) ListAll(ctx context.Context) ([]*models.EntryWithEmployee, error) {
	return r.listWithEmployee(ctx, `WHERE pe.status <> 'completed'`)
}

// ListPendingInProgress returns entries whose status is pending or
// in-progress, across all employees.
func (r *EntryRepository) ListPendingInProgress(ctx context.Context) ([]*models.EntryWithEmployee, error) {
	return r.listWithEmployee(ctx, `WHERE pe.status IN ('pending', 'in-progress')`)
}

// Update rewrites the editable fields of an entry, scoped by id and owning
// employee. Returns ErrNotFound when the scoped row does not exist.
func (r *EntryRepository) Update(ctx context.Context, e *models.Entry) error {
	row := r.DB.QueryRow(ctx,
		`UPDATE performance_entries SET
			name = $1, email = $2, mobile_number = $3, address = $4, purpose = $5,
			status = $6, notes = $7, image_url = $8, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $9 AND employee_id = $10
		 RETURNING serial_number, date, created_at, updated_at`,
		e.Name, e.Email, e.MobileNumber, e.Address, e.Purpose,
		e.Status, e.Notes, e.ImageURL, e.ID, e.EmployeeID)

	err := row.Scan(&e.SerialNumber, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes an entry scoped by id and owning employee. Deleting a
// non-existent id is a no-op success.
func (r *EntryRepository) Delete(ctx context.Context, id int, employeeID string) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM performance_entries WHERE id = $1 AND employee_id = $2`, id, employeeID)
	return err
}

// CountByStatus returns the number of active entries per status for one
// employee.
func (r *EntryRepository) CountByStatus(ctx context.Context, employeeID string) (map[string]int, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT status, COUNT(*) FROM performance_entries
		 WHERE employee_id = $1 GROUP BY status`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Recent returns the most recently updated entries for one employee,
// completed included, for the report view.
func (r *EntryRepository) Recent(ctx context.Context, employeeID string, limit int) ([]*models.Entry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM performance_entries pe
		 WHERE pe.employee_id = $1
		 ORDER BY pe.updated_at DESC
		 LIMIT $2`, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		var e models.Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// CompleteAndArchive performs the completion hand-off as a single
// transaction: the entry row is updated to 'completed' and the archive row is
// inserted with the employee display name resolved in the same statement.
// Retries are safe and keep the first snapshot: an already-completed row is
// left untouched and the existing archive row is returned, even when the
// retry arrives with different field values.
func (r *EntryRepository) CompleteAndArchive(ctx context.Context, e *models.Entry) (*models.CompletedClient, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// An entry completes at most once: a retry, even with edited fields,
	// must not rewrite the row the archive snapshot was taken from.
	row := tx.QueryRow(ctx,
		`UPDATE performance_entries SET
			name = $1, email = $2, mobile_number = $3, address = $4, purpose = $5,
			status = 'completed', notes = $6, image_url = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8 AND employee_id = $9 AND status <> 'completed'
		 RETURNING serial_number, name, email, mobile_number, address, purpose, date, notes, image_url, created_at, updated_at`,
		e.Name, e.Email, e.MobileNumber, e.Address, e.Purpose,
		e.Notes, e.ImageURL, e.ID, e.EmployeeID)

	err = row.Scan(&e.SerialNumber, &e.Name, &e.Email, &e.MobileNumber, &e.Address, &e.Purpose,
		&e.Date, &e.Notes, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already completed; return the stored snapshot instead of the
		// caller's payload.
		err = tx.QueryRow(ctx,
			`SELECT serial_number, name, email, mobile_number, address, purpose, date, notes, image_url, created_at, updated_at
			 FROM performance_entries
			 WHERE id = $1 AND employee_id = $2 AND status = 'completed'`,
			e.ID, e.EmployeeID,
		).Scan(&e.SerialNumber, &e.Name, &e.Email, &e.MobileNumber, &e.Address, &e.Purpose,
			&e.Date, &e.Notes, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	e.Status = models.StatusCompleted

	_, err = tx.Exec(ctx,
		`INSERT INTO completed_clients(original_entry_id, serial_number, name, email, mobile_number,
			address, purpose, employee_id, employee_name, date, notes, image_url)
		 SELECT pe.id, pe.serial_number, pe.name, pe.email, pe.mobile_number,
			pe.address, pe.purpose, pe.employee_id, `+employeeNameSQL+`, pe.date, pe.notes, pe.image_url
		 FROM performance_entries pe
		 LEFT JOIN accounts a ON pe.employee_id = a.account_id
		 LEFT JOIN employees e ON pe.employee_id = e.employee_id
		 WHERE pe.id = $1
		 ON CONFLICT (original_entry_id) DO NOTHING`, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to archive entry: %w", err)
	}

	var cc models.CompletedClient
	err = tx.QueryRow(ctx,
		`SELECT id, original_entry_id, serial_number, name, email, mobile_number, address,
			purpose, employee_id, employee_name, date, completion_date, notes, image_url
		 FROM completed_clients WHERE original_entry_id = $1`, e.ID,
	).Scan(&cc.ID, &cc.OriginalEntryID, &cc.SerialNumber, &cc.Name, &cc.Email, &cc.MobileNumber,
		&cc.Address, &cc.Purpose, &cc.EmployeeID, &cc.EmployeeName, &cc.Date, &cc.CompletionDate,
		&cc.Notes, &cc.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive row: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &cc, nil
}
