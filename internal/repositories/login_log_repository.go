package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"finoffice-backend/internal/models"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

func (r *LoginLogRepository) Create(ctx context.Context, accountID, ipAddress, userAgent string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO login_logs(account_id, ip_address, user_agent) VALUES($1, $2, $3)`,
		accountID, ipAddress, userAgent)
	return err
}

// List returns recent logins with resolved display names, newest first.
func (r *LoginLogRepository) List(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT l.id, l.account_id, COALESCE(a.name, e.name, l.account_id), l.ip_address, l.user_agent, l.created_at
		 FROM login_logs l
		 LEFT JOIN accounts a ON l.account_id = a.account_id
		 LEFT JOIN employees e ON l.account_id = e.employee_id
		 ORDER BY l.created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.AccountID, &l.Name, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
