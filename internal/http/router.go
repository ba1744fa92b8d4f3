package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finoffice-backend/internal/handlers"
	"finoffice-backend/internal/middleware"
	"finoffice-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	accountHandler *handlers.AccountHandler,
	entryHandler *handlers.EntryHandler,
	completedClientHandler *handlers.CompletedClientHandler,
	insightHandler *handlers.InsightHandler,
	aiHandler *handlers.AIHandler,
	uploadHandler *handlers.UploadHandler,
	reportHandler *handlers.ReportHandler,
	monitoringHandler *handlers.MonitoringHandler,
	loginLogHandler *handlers.LoginLogHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/api/auth", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify-totp", authHandler.VerifyTOTP).Methods("POST")
	r.HandleFunc("/health", healthHandler.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Readiness).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	managerial := authMiddleware.RequireType(models.AccountTypeAdmin, models.AccountTypeManager)
	adminOnly := authMiddleware.RequireType(models.AccountTypeAdmin)
	staff := authMiddleware.RequireType(models.AccountTypeAdmin, models.AccountTypeManager, models.AccountTypeEmployee)

	// Two-factor enrollment
	totpAPI := r.PathPrefix("/api/auth/totp").Subrouter()
	totpAPI.Use(authMiddleware.Authenticate)
	totpAPI.HandleFunc("/setup", totpHandler.Setup).Methods("POST")
	totpAPI.HandleFunc("/enable", totpHandler.Enable).Methods("POST")

	// Accounts (admin only)
	accountsAPI := r.PathPrefix("/api/accounts").Subrouter()
	accountsAPI.Use(authMiddleware.Authenticate)
	accountsAPI.HandleFunc("", adminOnly(http.HandlerFunc(accountHandler.ListAccounts)).ServeHTTP).Methods("GET")
	accountsAPI.HandleFunc("", adminOnly(http.HandlerFunc(accountHandler.CreateAccount)).ServeHTTP).Methods("POST")
	accountsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(accountHandler.UpdateAccount)).ServeHTTP).Methods("PUT")
	accountsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(accountHandler.DeleteAccount)).ServeHTTP).Methods("DELETE")

	// Performance entries. The fixed paths must be registered before the
	// {employeeId} routes or mux would capture "all" as an employee id.
	performanceAPI := r.PathPrefix("/api/performance").Subrouter()
	performanceAPI.Use(authMiddleware.Authenticate)
	performanceAPI.HandleFunc("/all", managerial(http.HandlerFunc(entryHandler.GetAllEntries)).ServeHTTP).Methods("GET")
	performanceAPI.HandleFunc("/pending-inprogress", managerial(http.HandlerFunc(entryHandler.GetPendingInProgress)).ServeHTTP).Methods("GET")
	performanceAPI.HandleFunc("/{employeeId}", entryHandler.GetEntries).Methods("GET")
	performanceAPI.HandleFunc("/{employeeId}", entryHandler.CreateEntry).Methods("POST")
	performanceAPI.HandleFunc("/{employeeId}/{id}", entryHandler.UpdateEntry).Methods("PUT")
	performanceAPI.HandleFunc("/{employeeId}/{id}", entryHandler.DeleteEntry).Methods("DELETE")

	// Completion archive
	completedAPI := r.PathPrefix("/api/completed-clients").Subrouter()
	completedAPI.Use(authMiddleware.Authenticate)
	completedAPI.HandleFunc("", managerial(http.HandlerFunc(completedClientHandler.ListCompletedClients)).ServeHTTP).Methods("GET")
	completedAPI.HandleFunc("", staff(http.HandlerFunc(completedClientHandler.ArchiveClient)).ServeHTTP).Methods("POST")

	// Financial insights (read-only)
	insightsAPI := r.PathPrefix("/api/financial-insights").Subrouter()
	insightsAPI.Use(authMiddleware.Authenticate)
	insightsAPI.HandleFunc("", insightHandler.ListInsights).Methods("GET")

	// AI narration proxy
	aiAPI := r.PathPrefix("/api/ai").Subrouter()
	aiAPI.Use(authMiddleware.Authenticate)
	aiAPI.HandleFunc("", aiHandler.Generate).Methods("POST")

	// Image upload
	uploadAPI := r.PathPrefix("/api/upload-image").Subrouter()
	uploadAPI.Use(authMiddleware.Authenticate)
	uploadAPI.HandleFunc("", uploadHandler.UploadImage).Methods("POST")

	// Employee reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/employee/{employeeId}", reportHandler.EmployeeReport).Methods("GET")

	// Audit and monitoring
	logsAPI := r.PathPrefix("/api/login-logs").Subrouter()
	logsAPI.Use(authMiddleware.Authenticate)
	logsAPI.HandleFunc("", adminOnly(http.HandlerFunc(loginLogHandler.ListLoginLogs)).ServeHTTP).Methods("GET")

	monitoringAPI := r.PathPrefix("/api/monitoring").Subrouter()
	monitoringAPI.Use(authMiddleware.Authenticate)
	monitoringAPI.HandleFunc("/status", managerial(http.HandlerFunc(monitoringHandler.Status)).ServeHTTP).Methods("GET")

	// Websocket upgrade carries the token in a query parameter, so it skips
	// the header-based middleware; the handler registers and streams only.
	r.HandleFunc("/api/monitoring/ws", monitoringHandler.Events).Methods("GET")

	return r
}
