package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"finoffice-backend/internal/models"
)

type FinancialInsightRepository struct {
	DB *pgxpool.Pool
}

func NewFinancialInsightRepository(db *pgxpool.Pool) *FinancialInsightRepository {
	return &FinancialInsightRepository{DB: db}
}

// List returns all insights, newest first.
func (r *FinancialInsightRepository) List(ctx context.Context) ([]*models.FinancialInsight, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, title, description, impact, value, trend, category, created_at
		 FROM financial_insights
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []*models.FinancialInsight
	for rows.Next() {
		var in models.FinancialInsight
		err := rows.Scan(&in.ID, &in.Title, &in.Description, &in.Impact,
			&in.Value, &in.Trend, &in.Category, &in.CreatedAt)
		if err != nil {
			return nil, err
		}
		insights = append(insights, &in)
	}
	return insights, rows.Err()
}
