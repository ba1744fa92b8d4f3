package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finoffice-backend/internal/models"
)

func TestPanicRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/performance/all", nil)
	PanicRecovery(panicky).ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
}

func TestRequireType(t *testing.T) {
	m := &AuthMiddleware{}
	staffOnly := m.RequireType(models.AccountTypeAdmin, models.AccountTypeManager, models.AccountTypeEmployee)

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	doRequest := func(accountType string) *httptest.ResponseRecorder {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/api/completed-clients", nil)
		if accountType != "" {
			req = req.WithContext(context.WithValue(req.Context(), AccountTypeKey, accountType))
		}
		rr := httptest.NewRecorder()
		staffOnly(next).ServeHTTP(rr, req)
		return rr
	}

	t.Run("employee passes", func(t *testing.T) {
		rr := doRequest(models.AccountTypeEmployee)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, reached)
	})

	t.Run("client is rejected", func(t *testing.T) {
		rr := doRequest(models.AccountTypeClient)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.False(t, reached)
	})

	t.Run("missing account type", func(t *testing.T) {
		rr := doRequest("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, reached)
	})
}
