package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
	"finoffice-backend/internal/services"
)

type AuthHandler struct {
	Service      *services.AccountService
	TOTPService  *services.TOTPService
	LoginLogRepo *repositories.LoginLogRepository
}

func NewAuthHandler(s *services.AccountService, totp *services.TOTPService, loginLogRepo *repositories.LoginLogRepository) *AuthHandler {
	return &AuthHandler{
		Service:      s,
		TOTPService:  totp,
		LoginLogRepo: loginLogRepo,
	}
}

// Login authenticates an employee or client account
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	authResp, err := h.Service.Authenticate(context.Background(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.AuthResponse{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}

	// Fully authenticated logins get a log row; 2FA-pending ones are logged
	// after the code is verified.
	if authResp.User != nil {
		h.recordLogin(r, authResp.User.ID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResp)
}

// VerifyTOTP completes a two-factor login started by Login
func (h *AuthHandler) VerifyTOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyTOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	accountID, err := h.Service.ValidatePendingLogin(req.TempToken)
	if err != nil {
		http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
		return
	}

	if err := h.TOTPService.Verify(context.Background(), accountID, req.Code); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.AuthResponse{
			Success: false,
			Message: "Invalid verification code",
		})
		return
	}

	authResp, err := h.Service.CompleteTOTPLogin(context.Background(), accountID)
	if err != nil {
		http.Error(w, "Failed to complete login", http.StatusInternalServerError)
		return
	}

	h.recordLogin(r, accountID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResp)
}

func (h *AuthHandler) recordLogin(r *http.Request, accountID string) {
	if h.LoginLogRepo == nil {
		return
	}
	// Best effort, a failed log write must not fail the login
	_ = h.LoginLogRepo.Create(context.Background(), accountID, getIPAddress(r), r.UserAgent())
}

// getIPAddress extracts the real IP address from the request
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first (for proxies/load balancers)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}
