package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"finoffice-backend/internal/repositories"
)

type LoginLogHandler struct {
	Repo *repositories.LoginLogRepository
}

func NewLoginLogHandler(repo *repositories.LoginLogRepository) *LoginLogHandler {
	return &LoginLogHandler{Repo: repo}
}

func (h *LoginLogHandler) ListLoginLogs(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	logs, err := h.Repo.List(context.Background(), limit)
	if err != nil {
		http.Error(w, "Failed to fetch login logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}
