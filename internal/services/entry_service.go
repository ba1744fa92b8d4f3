package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finoffice-backend/internal/metrics"
	"finoffice-backend/internal/models"
	"finoffice-backend/internal/monitoring"
	"finoffice-backend/internal/repositories"
)

// ErrInvalidInput marks validation failures so handlers can answer 400
// instead of 500.
var ErrInvalidInput = errors.New("invalid input")

// EntryStore is the persistence surface the lifecycle coordinator needs.
// *repositories.EntryRepository implements it.
type EntryStore interface {
	Create(ctx context.Context, e *models.Entry) error
	Get(ctx context.Context, id int, employeeID string) (*models.Entry, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*models.Entry, error)
	ListAll(ctx context.Context) ([]*models.EntryWithEmployee, error)
	ListPendingInProgress(ctx context.Context) ([]*models.EntryWithEmployee, error)
	Update(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, id int, employeeID string) error
	CompleteAndArchive(ctx context.Context, e *models.Entry) (*models.CompletedClient, error)
}

// EntryService coordinates the entry lifecycle. The completion hand-off
// (status update + archive insert) happens inside one store transaction, so a
// caller only ever observes both effects or neither.
type EntryService struct {
	Store EntryStore
	Hub   *monitoring.Hub
}

func NewEntryService(store EntryStore, hub *monitoring.Hub) *EntryService {
	return &EntryService{
		Store: store,
		Hub:   hub,
	}
}

func validateEntryFields(name, email, mobile, address, purpose string) error {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(mobile) == "" {
		missing = append(missing, "mobileNumber")
	}
	if strings.TrimSpace(address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(purpose) == "" {
		missing = append(missing, "purpose")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func (s *EntryService) CreateEntry(ctx context.Context, employeeID string, req *models.CreateEntryRequest) (*models.Entry, error) {
	if err := validateEntryFields(req.Name, req.Email, req.MobileNumber, req.Address, req.Purpose); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if status == models.StatusCompleted {
		return nil, fmt.Errorf("%w: an entry cannot be created as completed", ErrInvalidInput)
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		date = parsed
	}

	entry := &models.Entry{
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Purpose:      req.Purpose,
		EmployeeID:   employeeID,
		Date:         date,
		Status:       status,
		Notes:        req.Notes,
		ImageURL:     req.ImageURL,
	}

	if err := s.Store.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.Hub.Publish(monitoring.Event{Type: "entry.created", EmployeeID: employeeID, EntryID: entry.ID, Payload: entry})
	return entry, nil
}

func (s *EntryService) GetEntries(ctx context.Context, employeeID string) ([]*models.Entry, error) {
	return s.Store.ListByEmployee(ctx, employeeID)
}

func (s *EntryService) GetAllEntries(ctx context.Context) ([]*models.EntryWithEmployee, error) {
	return s.Store.ListAll(ctx)
}

func (s *EntryService) GetPendingInProgress(ctx context.Context) ([]*models.EntryWithEmployee, error) {
	return s.Store.ListPendingInProgress(ctx)
}

// UpdateEntry applies an edit. When the edit transitions a non-completed
// entry to 'completed', the update and the archive insert are performed
// together in one transaction and the archive row is returned alongside the
// entry. Re-submitting a completion changes nothing: the stored snapshot wins
// over the retry's payload.
func (s *EntryService) UpdateEntry(ctx context.Context, id int, employeeID string, req *models.UpdateEntryRequest) (*models.Entry, *models.CompletedClient, error) {
	if err := validateEntryFields(req.Name, req.Email, req.MobileNumber, req.Address, req.Purpose); err != nil {
		return nil, nil, err
	}
	if !models.ValidStatus(req.Status) {
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	current, err := s.Store.Get(ctx, id, employeeID)
	if err != nil {
		return nil, nil, err
	}

	// Completed is terminal. A repeated completion request is absorbed as a
	// no-op below; any other edit of a completed entry is rejected.
	if current.Status == models.StatusCompleted && req.Status != models.StatusCompleted {
		return nil, nil, fmt.Errorf("%w: a completed entry cannot be reopened", ErrInvalidInput)
	}

	entry := &models.Entry{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
		Purpose:      req.Purpose,
		EmployeeID:   employeeID,
		Status:       req.Status,
		Notes:        req.Notes,
		ImageURL:     req.ImageURL,
	}

	if req.Status == models.StatusCompleted {
		archived, err := s.Store.CompleteAndArchive(ctx, entry)
		if err != nil {
			return nil, nil, err
		}
		if current.Status != models.StatusCompleted {
			metrics.EntriesCompletedTotal.Inc()
		}
		s.Hub.Publish(monitoring.Event{Type: "entry.completed", EmployeeID: employeeID, EntryID: id, Payload: archived})
		return entry, archived, nil
	}

	if err := s.Store.Update(ctx, entry); err != nil {
		return nil, nil, err
	}

	s.Hub.Publish(monitoring.Event{Type: "entry.updated", EmployeeID: employeeID, EntryID: id, Payload: entry})
	return entry, nil, nil
}

// DeleteEntry removes an entry. Deleting an id that does not exist is a
// no-op success.
func (s *EntryService) DeleteEntry(ctx context.Context, id int, employeeID string) error {
	if err := s.Store.Delete(ctx, id, employeeID); err != nil {
		return err
	}
	s.Hub.Publish(monitoring.Event{Type: "entry.deleted", EmployeeID: employeeID, EntryID: id})
	return nil
}

var _ EntryStore = (*repositories.EntryRepository)(nil)
