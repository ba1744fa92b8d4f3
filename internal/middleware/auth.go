package middleware

import (
	"context"
	"net/http"
	"strings"

	"finoffice-backend/internal/auth"
	"finoffice-backend/internal/repositories"
)

type contextKey string

const AccountIDKey contextKey = "account_id"
const EmailKey contextKey = "email"
const AccountTypeKey contextKey = "account_type"
const DisplayNameKey contextKey = "display_name"

type AuthMiddleware struct {
	jwtManager  *auth.JWTManager
	accountRepo *repositories.AccountRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, accountRepo *repositories.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:  jwtManager,
		accountRepo: accountRepo,
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the JWT and loads the account's current state so that
// deactivation takes effect immediately, not at token expiry.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		account, err := m.accountRepo.GetAuthAccount(r.Context(), claims.AccountID)
		if err != nil {
			http.Error(w, "Account not found", http.StatusUnauthorized)
			return
		}

		if !account.IsActive {
			http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), AccountIDKey, account.AccountID)
		ctx = context.WithValue(ctx, EmailKey, account.Email)
		ctx = context.WithValue(ctx, AccountTypeKey, account.AccountType)
		ctx = context.WithValue(ctx, DisplayNameKey, account.Name)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireType ensures the authenticated account has one of the allowed
// account types. Must run inside Authenticate.
func (m *AuthMiddleware) RequireType(allowedTypes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountType, ok := GetAccountTypeFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, allowed := range allowedTypes {
				if accountType == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Insufficient permissions", http.StatusForbidden)
		})
	}
}

// GetAccountIDFromContext extracts the business account id from request context
func GetAccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountIDKey).(string)
	return id, ok
}

// GetAccountTypeFromContext extracts the account type from request context
func GetAccountTypeFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(AccountTypeKey).(string)
	return t, ok
}

// GetDisplayNameFromContext extracts the account display name from request context
func GetDisplayNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(DisplayNameKey).(string)
	return name, ok
}
