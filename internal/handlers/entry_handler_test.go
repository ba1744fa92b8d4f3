package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finoffice-backend/internal/middleware"
	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
	"finoffice-backend/internal/services"
)

// fakeEntryStore mimics the repository contract in memory: serial assignment
// on create, employee-scoped lookups, idempotent completion.
type fakeEntryStore struct {
	entries map[int]*models.Entry
	archive map[int]*models.CompletedClient
	nextID  int
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{
		entries: make(map[int]*models.Entry),
		archive: make(map[int]*models.CompletedClient),
		nextID:  1,
	}
}

func (f *fakeEntryStore) Create(_ context.Context, e *models.Entry) error {
	e.ID = f.nextID
	f.nextID++
	serial := 1
	for _, existing := range f.entries {
		if existing.EmployeeID == e.EmployeeID && existing.SerialNumber >= serial {
			serial = existing.SerialNumber + 1
		}
	}
	e.SerialNumber = serial
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeEntryStore) Get(_ context.Context, id int, employeeID string) (*models.Entry, error) {
	e, ok := f.entries[id]
	if !ok || e.EmployeeID != employeeID {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEntryStore) ListByEmployee(_ context.Context, employeeID string) ([]*models.Entry, error) {
	out := []*models.Entry{}
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && e.Status != models.StatusCompleted {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) ListAll(_ context.Context) ([]*models.EntryWithEmployee, error) {
	out := []*models.EntryWithEmployee{}
	for _, e := range f.entries {
		out = append(out, &models.EntryWithEmployee{Entry: *e, EmployeeName: e.EmployeeID})
	}
	return out, nil
}

func (f *fakeEntryStore) ListPendingInProgress(_ context.Context) ([]*models.EntryWithEmployee, error) {
	out := []*models.EntryWithEmployee{}
	for _, e := range f.entries {
		if e.Status == models.StatusPending || e.Status == models.StatusInProgress {
			out = append(out, &models.EntryWithEmployee{Entry: *e, EmployeeName: e.EmployeeID})
		}
	}
	return out, nil
}

func (f *fakeEntryStore) Update(_ context.Context, e *models.Entry) error {
	current, ok := f.entries[e.ID]
	if !ok || current.EmployeeID != e.EmployeeID {
		return repositories.ErrNotFound
	}
	e.SerialNumber = current.SerialNumber
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeEntryStore) Delete(_ context.Context, id int, employeeID string) error {
	if e, ok := f.entries[id]; ok && e.EmployeeID == employeeID {
		delete(f.entries, id)
	}
	return nil
}

func (f *fakeEntryStore) CompleteAndArchive(_ context.Context, e *models.Entry) (*models.CompletedClient, error) {
	current, ok := f.entries[e.ID]
	if !ok || current.EmployeeID != e.EmployeeID {
		return nil, repositories.ErrNotFound
	}
	if current.Status == models.StatusCompleted {
		*e = *current
		cp := *f.archive[e.ID]
		return &cp, nil
	}
	current.Name = e.Name
	current.Notes = e.Notes
	current.Status = models.StatusCompleted
	e.SerialNumber = current.SerialNumber
	cc := &models.CompletedClient{
		ID:              len(f.archive) + 1,
		OriginalEntryID: e.ID,
		SerialNumber:    current.SerialNumber,
		Name:            e.Name,
		EmployeeID:      e.EmployeeID,
	}
	f.archive[e.ID] = cc
	cp := *cc
	return &cp, nil
}

var _ services.EntryStore = (*fakeEntryStore)(nil)

// entryTestRouter wires the entry routes the way the real router does, with a
// middleware that plants the given identity into the request context.
func entryTestRouter(h *EntryHandler, accountID, accountType string) *mux.Router {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.AccountIDKey, accountID)
			ctx = context.WithValue(ctx, middleware.AccountTypeKey, accountType)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.HandleFunc("/api/performance/all", h.GetAllEntries).Methods("GET")
	r.HandleFunc("/api/performance/pending-inprogress", h.GetPendingInProgress).Methods("GET")
	r.HandleFunc("/api/performance/{employeeId}", h.GetEntries).Methods("GET")
	r.HandleFunc("/api/performance/{employeeId}", h.CreateEntry).Methods("POST")
	r.HandleFunc("/api/performance/{employeeId}/{id}", h.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/performance/{employeeId}/{id}", h.DeleteEntry).Methods("DELETE")
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func entryBody() models.CreateEntryRequest {
	return models.CreateEntryRequest{
		Name:         "Arjun Mehta",
		Email:        "arjun@example.com",
		MobileNumber: "9876543210",
		Address:      "12 Marine Drive, Mumbai",
		Purpose:      "Retirement portfolio review",
	}
}

func TestEntryRoutes_OwnPipeline(t *testing.T) {
	store := newFakeEntryStore()
	h := NewEntryHandler(services.NewEntryService(store, nil))
	router := entryTestRouter(h, "EMP001", models.AccountTypeEmployee)

	t.Run("create", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/api/performance/EMP001", entryBody())
		require.Equal(t, http.StatusCreated, rr.Code)

		var entry models.Entry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
		assert.Equal(t, 1, entry.SerialNumber)
		assert.Equal(t, models.StatusPending, entry.Status)
	})

	t.Run("create with missing fields", func(t *testing.T) {
		body := entryBody()
		body.Purpose = ""
		rr := doJSON(t, router, http.MethodPost, "/api/performance/EMP001", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list active", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/api/performance/EMP001", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var entries []models.Entry
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		assert.Len(t, entries, 1)
	})

	t.Run("complete returns archive row", func(t *testing.T) {
		update := models.UpdateEntryRequest{
			Name:         "Arjun Mehta",
			Email:        "arjun@example.com",
			MobileNumber: "9876543210",
			Address:      "12 Marine Drive, Mumbai",
			Purpose:      "Retirement portfolio review",
			Status:       models.StatusCompleted,
		}
		rr := doJSON(t, router, http.MethodPut, "/api/performance/EMP001/1", update)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			models.Entry
			CompletedClient *models.CompletedClient `json:"completed_client"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.CompletedClient)
		assert.Equal(t, 1, resp.CompletedClient.OriginalEntryID)
	})

	t.Run("update unknown entry", func(t *testing.T) {
		update := models.UpdateEntryRequest{
			Name: "x", Email: "x@example.com", MobileNumber: "1", Address: "a", Purpose: "p",
			Status: models.StatusInProgress,
		}
		rr := doJSON(t, router, http.MethodPut, "/api/performance/EMP001/999", update)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete missing is success", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodDelete, "/api/performance/EMP001/999", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestEntryRoutes_Scoping(t *testing.T) {
	store := newFakeEntryStore()
	h := NewEntryHandler(services.NewEntryService(store, nil))

	t.Run("employee cannot touch another pipeline", func(t *testing.T) {
		router := entryTestRouter(h, "EMP002", models.AccountTypeEmployee)
		rr := doJSON(t, router, http.MethodPost, "/api/performance/EMP001", entryBody())
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("manager may touch any pipeline", func(t *testing.T) {
		router := entryTestRouter(h, "MGR001", models.AccountTypeManager)
		rr := doJSON(t, router, http.MethodPost, "/api/performance/EMP001", entryBody())
		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}

func TestEntryRoutes_ReadModels(t *testing.T) {
	store := newFakeEntryStore()
	svc := services.NewEntryService(store, nil)
	h := NewEntryHandler(svc)
	router := entryTestRouter(h, "MGR001", models.AccountTypeManager)

	for i := 0; i < 3; i++ {
		rr := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/performance/EMP00%d", i+1), entryBody())
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	t.Run("all entries", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/api/performance/all", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var entries []models.EntryWithEmployee
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		assert.Len(t, entries, 3)
	})

	t.Run("pending and in-progress", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/api/performance/pending-inprogress", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var entries []models.EntryWithEmployee
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
		assert.Len(t, entries, 3)
	})
}
