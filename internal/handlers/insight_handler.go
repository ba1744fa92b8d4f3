package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"finoffice-backend/internal/repositories"
)

type InsightHandler struct {
	Repo *repositories.FinancialInsightRepository
}

func NewInsightHandler(repo *repositories.FinancialInsightRepository) *InsightHandler {
	return &InsightHandler{Repo: repo}
}

func (h *InsightHandler) ListInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.Repo.List(context.Background())
	if err != nil {
		http.Error(w, "Failed to fetch insights", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(insights)
}
