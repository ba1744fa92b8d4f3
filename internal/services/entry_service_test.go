package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finoffice-backend/internal/models"
	"finoffice-backend/internal/repositories"
)

// fakeEntryStore is an in-memory EntryStore that mimics the repository's
// contract: serial assignment on create, idempotent completion, scoped
// lookups.
type fakeEntryStore struct {
	entries  map[int]*models.Entry
	archive  map[int]*models.CompletedClient
	nextID   int
	archived int
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
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
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
	var out []*models.Entry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && e.Status != models.StatusCompleted {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEntryStore) ListAll(_ context.Context) ([]*models.EntryWithEmployee, error) {
	var out []*models.EntryWithEmployee
	for _, e := range f.entries {
		out = append(out, &models.EntryWithEmployee{Entry: *e, EmployeeName: e.EmployeeID})
	}
	return out, nil
}

func (f *fakeEntryStore) ListPendingInProgress(_ context.Context) ([]*models.EntryWithEmployee, error) {
	var out []*models.EntryWithEmployee
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
	e.Date = current.Date
	e.UpdatedAt = time.Now()
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
		// Retries keep the stored snapshot; the caller's payload is ignored.
		*e = *current
		cp := *f.archive[e.ID]
		return &cp, nil
	}
	current.Name = e.Name
	current.Email = e.Email
	current.MobileNumber = e.MobileNumber
	current.Address = e.Address
	current.Purpose = e.Purpose
	current.Notes = e.Notes
	current.ImageURL = e.ImageURL
	current.Status = models.StatusCompleted
	e.SerialNumber = current.SerialNumber
	e.Date = current.Date
	f.archived++
	cc := &models.CompletedClient{
		ID:              f.archived,
		OriginalEntryID: e.ID,
		SerialNumber:    current.SerialNumber,
		Name:            e.Name,
		Email:           e.Email,
		EmployeeID:      e.EmployeeID,
		CompletionDate:  time.Now(),
	}
	f.archive[e.ID] = cc
	cp := *cc
	return &cp, nil
}

func validCreateRequest() *models.CreateEntryRequest {
	return &models.CreateEntryRequest{
		Name:         "Arjun Mehta",
		Email:        "arjun@example.com",
		MobileNumber: "9876543210",
		Address:      "12 Marine Drive, Mumbai",
		Purpose:      "Retirement portfolio review",
	}
}

func TestCreateEntry(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewEntryService(store, nil)

	t.Run("defaults to pending with assigned serial", func(t *testing.T) {
		entry, err := svc.CreateEntry(context.Background(), "EMP001", validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, entry.Status)
		assert.Equal(t, 1, entry.SerialNumber)
		assert.Equal(t, "EMP001", entry.EmployeeID)
	})

	t.Run("serials are per employee", func(t *testing.T) {
		second, err := svc.CreateEntry(context.Background(), "EMP001", validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 2, second.SerialNumber)

		other, err := svc.CreateEntry(context.Background(), "EMP002", validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 1, other.SerialNumber)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		req := validCreateRequest()
		req.Email = ""
		req.Purpose = "  "
		_, err := svc.CreateEntry(context.Background(), "EMP001", req)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "email")
		assert.Contains(t, err.Error(), "purpose")
	})

	t.Run("rejects creation as completed", func(t *testing.T) {
		req := validCreateRequest()
		req.Status = models.StatusCompleted
		_, err := svc.CreateEntry(context.Background(), "EMP001", req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		req := validCreateRequest()
		req.Status = "done"
		_, err := svc.CreateEntry(context.Background(), "EMP001", req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		req := validCreateRequest()
		req.Date = "31-01-2026"
		_, err := svc.CreateEntry(context.Background(), "EMP001", req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func updateRequestFrom(entry *models.Entry, status string) *models.UpdateEntryRequest {
	return &models.UpdateEntryRequest{
		Name:         entry.Name,
		Email:        entry.Email,
		MobileNumber: entry.MobileNumber,
		Address:      entry.Address,
		Purpose:      entry.Purpose,
		Status:       status,
		Notes:        entry.Notes,
	}
}

func TestUpdateEntry_Lifecycle(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewEntryService(store, nil)

	entry, err := svc.CreateEntry(context.Background(), "EMP001", validCreateRequest())
	require.NoError(t, err)

	t.Run("pending to in-progress", func(t *testing.T) {
		updated, archived, err := svc.UpdateEntry(context.Background(), entry.ID, "EMP001", updateRequestFrom(entry, models.StatusInProgress))
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, updated.Status)
		assert.Nil(t, archived)
	})

	t.Run("completion archives exactly once", func(t *testing.T) {
		_, archived, err := svc.UpdateEntry(context.Background(), entry.ID, "EMP001", updateRequestFrom(entry, models.StatusCompleted))
		require.NoError(t, err)
		require.NotNil(t, archived)
		assert.Equal(t, entry.ID, archived.OriginalEntryID)

		// Replaying the completion returns the same archive row
		_, again, err := svc.UpdateEntry(context.Background(), entry.ID, "EMP001", updateRequestFrom(entry, models.StatusCompleted))
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, archived.ID, again.ID)
		assert.Len(t, store.archive, 1)
	})

	t.Run("completed cannot be reopened", func(t *testing.T) {
		_, _, err := svc.UpdateEntry(context.Background(), entry.ID, "EMP001", updateRequestFrom(entry, models.StatusPending))
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "reopened")
	})

	t.Run("completed entries leave the active list", func(t *testing.T) {
		active, err := svc.GetEntries(context.Background(), "EMP001")
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("wrong employee scope is not found", func(t *testing.T) {
		fresh, err := svc.CreateEntry(context.Background(), "EMP001", validCreateRequest())
		require.NoError(t, err)

		_, _, err = svc.UpdateEntry(context.Background(), fresh.ID, "EMP002", updateRequestFrom(fresh, models.StatusInProgress))
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestUpdateEntry_CompletionRetryKeepsFirstSnapshot(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewEntryService(store, nil)

	entry, err := svc.CreateEntry(context.Background(), "EMP001", validCreateRequest())
	require.NoError(t, err)

	completed, archived, err := svc.UpdateEntry(context.Background(), entry.ID, "EMP001", updateRequestFrom(entry, models.StatusCompleted))
	require.NoError(t, err)
	require.NotNil(t, archived)

	// A retried completion with edited fields must not rewrite the live row
	// or the archive
	divergent := updateRequestFrom(entry, models.StatusCompleted)
	divergent.Name = "Someone Else"
	divergent.Notes = "tampered on retry"

	retried, again, err := svc.UpdateEntry(context.Background(), entry.ID, "EMP001", divergent)
	require.NoError(t, err)
	require.NotNil(t, again)

	assert.Equal(t, completed.Name, retried.Name)
	assert.Equal(t, completed.Notes, retried.Notes)
	assert.Equal(t, archived.ID, again.ID)
	assert.Equal(t, archived.Name, again.Name)

	stored := store.entries[entry.ID]
	assert.Equal(t, completed.Name, stored.Name)
	assert.Equal(t, completed.Notes, stored.Notes)
	assert.Len(t, store.archive, 1)
}

func TestDeleteEntry_MissingIsNoOp(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewEntryService(store, nil)

	err := svc.DeleteEntry(context.Background(), 999, "EMP001")
	assert.NoError(t, err)
}
