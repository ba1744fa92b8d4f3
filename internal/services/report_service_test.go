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

type fakeReportStore struct {
	counts map[string]int
	recent []*models.Entry
}

func (f *fakeReportStore) CountByStatus(_ context.Context, _ string) (map[string]int, error) {
	return f.counts, nil
}

func (f *fakeReportStore) Recent(_ context.Context, _ string, _ int) ([]*models.Entry, error) {
	return f.recent, nil
}

type fakeArchiveCounter struct{ count int }

func (f *fakeArchiveCounter) CountByEmployee(_ context.Context, _ string) (int, error) {
	return f.count, nil
}

type fakeNameResolver struct{ account *models.Account }

func (f *fakeNameResolver) GetAuthAccount(_ context.Context, _ string) (*models.Account, error) {
	if f.account == nil {
		return nil, repositories.ErrNotFound
	}
	return f.account, nil
}

func TestEmployeeReport(t *testing.T) {
	entries := &fakeReportStore{
		counts: map[string]int{
			models.StatusPending:    3,
			models.StatusInProgress: 1,
		},
		recent: []*models.Entry{
			{SerialNumber: 4, Name: "Arjun Mehta", Purpose: "Portfolio review", Date: time.Now(), Status: models.StatusPending},
		},
	}

	t.Run("aggregates counts with archive completions", func(t *testing.T) {
		svc := NewReportService(entries, &fakeArchiveCounter{count: 4}, &fakeNameResolver{
			account: &models.Account{AccountID: "EMP001", Name: "Priya Nair"},
		})

		report, err := svc.EmployeeReport(context.Background(), "EMP001")
		require.NoError(t, err)
		assert.Equal(t, "Priya Nair", report.EmployeeName)
		assert.Equal(t, 3, report.Pending)
		assert.Equal(t, 1, report.InProgress)
		assert.Equal(t, 4, report.Completed)
		assert.Equal(t, 8, report.Total)
		assert.InDelta(t, 0.5, report.CompletionRate, 0.001)
		assert.Len(t, report.RecentEntries, 1)
	})

	t.Run("falls back to id when name lookup fails", func(t *testing.T) {
		svc := NewReportService(entries, &fakeArchiveCounter{}, &fakeNameResolver{})

		report, err := svc.EmployeeReport(context.Background(), "EMP009")
		require.NoError(t, err)
		assert.Equal(t, "EMP009", report.EmployeeName)
	})

	t.Run("zero total has zero completion rate", func(t *testing.T) {
		svc := NewReportService(&fakeReportStore{counts: map[string]int{}}, &fakeArchiveCounter{}, &fakeNameResolver{})

		report, err := svc.EmployeeReport(context.Background(), "EMP010")
		require.NoError(t, err)
		assert.Zero(t, report.Total)
		assert.Zero(t, report.CompletionRate)
	})
}

func TestGeneratePDF(t *testing.T) {
	svc := NewReportService(&fakeReportStore{}, &fakeArchiveCounter{}, &fakeNameResolver{})

	pdf, err := svc.GeneratePDF(&models.EmployeeReport{
		EmployeeID:   "EMP001",
		EmployeeName: "Priya Nair",
		Pending:      2,
		InProgress:   1,
		Completed:    3,
		Total:        6,
		RecentEntries: []*models.Entry{
			{SerialNumber: 1, Name: "Arjun Mehta", Purpose: "Retirement portfolio review for long horizon", Date: time.Now(), Status: models.StatusCompleted},
		},
	})
	require.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
