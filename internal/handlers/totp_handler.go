package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"finoffice-backend/internal/middleware"
	"finoffice-backend/internal/repositories"
	"finoffice-backend/internal/services"
)

type TOTPHandler struct {
	Service     *services.TOTPService
	AccountRepo *repositories.AccountRepository
}

func NewTOTPHandler(s *services.TOTPService, accountRepo *repositories.AccountRepository) *TOTPHandler {
	return &TOTPHandler{Service: s, AccountRepo: accountRepo}
}

// Setup generates a fresh TOTP secret and QR code for the caller.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.AccountRepo.GetByAccountID(context.Background(), accountID)
	if err != nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	setup, err := h.Service.GenerateSetup(context.Background(), account)
	if err != nil {
		http.Error(w, "Failed to generate TOTP setup", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setup)
}

// Enable verifies the first authenticator code and turns TOTP on.
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Enable(context.Background(), accountID, req.Code); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Two-factor authentication enabled"})
}
