package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"finoffice-backend/internal/cache"
	"finoffice-backend/internal/middleware"
	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
	"finoffice-backend/internal/services"

	"github.com/gorilla/mux"
)

type EntryHandler struct {
	Service *services.EntryService
}

func NewEntryHandler(s *services.EntryService) *EntryHandler {
	return &EntryHandler{Service: s}
}

// canActOn reports whether the authenticated caller may touch the pipeline of
// the given employee. Admins and managers may touch any pipeline.
func canActOn(r *http.Request, employeeID string) bool {
	accountID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		return false
	}
	if accountID == employeeID {
		return true
	}
	accountType, _ := middleware.GetAccountTypeFromContext(r.Context())
	return accountType == models.AccountTypeAdmin || accountType == models.AccountTypeManager
}

func entryErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound, "Entry not found"
	}
	return http.StatusInternalServerError, "Failed to process entry"
}

func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	if !canActOn(r, employeeID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.CreateEntry(context.Background(), employeeID, &req)
	if err != nil {
		status, msg := entryErrorStatus(err)
		http.Error(w, msg, status)
		return
	}

	cache.InvalidateEntryCaches(context.Background())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// GetEntries returns the active (pending and in-progress) entries of one
// employee.
func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employeeId"]
	if !canActOn(r, employeeID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	entries, err := h.Service.GetEntries(context.Background(), employeeID)
	if err != nil {
		http.Error(w, "Failed to fetch entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	employeeID := vars["employeeId"]
	if !canActOn(r, employeeID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	var req models.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, archived, err := h.Service.UpdateEntry(context.Background(), id, employeeID, &req)
	if err != nil {
		status, msg := entryErrorStatus(err)
		http.Error(w, msg, status)
		return
	}

	cache.InvalidateEntryCaches(context.Background())

	resp := struct {
		*models.Entry
		CompletedClient *models.CompletedClient `json:"completed_client,omitempty"`
	}{Entry: entry, CompletedClient: archived}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	employeeID := vars["employeeId"]
	if !canActOn(r, employeeID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteEntry(context.Background(), id, employeeID); err != nil {
		status, msg := entryErrorStatus(err)
		http.Error(w, msg, status)
		return
	}

	cache.InvalidateEntryCaches(context.Background())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Entry deleted successfully"})
}

// GetAllEntries returns every entry across employees, joined with the
// employee display name. Served from the short-TTL read-model cache when warm.
func (h *EntryHandler) GetAllEntries(w http.ResponseWriter, r *http.Request) {
	h.serveReadModel(w, cache.AllEntriesKey, func(ctx context.Context) (interface{}, error) {
		return h.Service.GetAllEntries(ctx)
	})
}

// GetPendingInProgress returns the active entries across all employees.
func (h *EntryHandler) GetPendingInProgress(w http.ResponseWriter, r *http.Request) {
	h.serveReadModel(w, cache.PendingInProgressKey, func(ctx context.Context) (interface{}, error) {
		return h.Service.GetPendingInProgress(ctx)
	})
}

func (h *EntryHandler) serveReadModel(w http.ResponseWriter, key string, fetch func(ctx context.Context) (interface{}, error)) {
	ctx := context.Background()

	if data, ok := cache.GetReadModel(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
		return
	}

	result, err := fetch(ctx)
	if err != nil {
		http.Error(w, "Failed to fetch entries", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Failed to encode entries", http.StatusInternalServerError)
		return
	}
	cache.SetReadModel(ctx, key, data)

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
