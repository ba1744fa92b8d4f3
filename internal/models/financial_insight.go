package models

import "time"

type FinancialInsight struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"` // 'positive', 'negative', 'neutral'
	Value       float64   `json:"value"`
	Trend       string    `json:"trend"` // 'up', 'down', 'stable'
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}
