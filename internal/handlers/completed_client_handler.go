package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
)

type CompletedClientHandler struct {
	Repo *repositories.CompletedClientRepository
}

func NewCompletedClientHandler(repo *repositories.CompletedClientRepository) *CompletedClientHandler {
	return &CompletedClientHandler{Repo: repo}
}

func (h *CompletedClientHandler) ListCompletedClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Repo.List(context.Background())
	if err != nil {
		http.Error(w, "Failed to fetch completed clients", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

// ArchiveClient records a completed client directly. Archiving is keyed on the
// original entry id, so replaying the same request returns the existing row.
func (h *CompletedClientHandler) ArchiveClient(w http.ResponseWriter, r *http.Request) {
	var req models.ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.OriginalEntryID <= 0 {
		http.Error(w, "originalEntryId is required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		date = time.Now()
	}

	archived, err := h.Repo.Archive(context.Background(), &models.CompletedClient{
		OriginalEntryID: req.OriginalEntryID,
		SerialNumber:    req.SerialNumber,
		Name:            req.Name,
		Email:           req.Email,
		MobileNumber:    req.MobileNumber,
		Address:         req.Address,
		Purpose:         req.Purpose,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    req.EmployeeName,
		Date:            date,
		CompletionDate:  time.Now(),
		Notes:           req.Notes,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		http.Error(w, "Failed to archive client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(archived)
}
