package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"finoffice-backend/internal/auth"
	"finoffice-backend/internal/monitoring"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the frontend origin; auth happens via the
	// token query parameter checked before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type MonitoringHandler struct {
	Hub        *monitoring.Hub
	DB         *pgxpool.Pool
	JWTManager *auth.JWTManager
}

func NewMonitoringHandler(hub *monitoring.Hub, db *pgxpool.Pool, jwtManager *auth.JWTManager) *MonitoringHandler {
	return &MonitoringHandler{Hub: hub, DB: db, JWTManager: jwtManager}
}

// Events upgrades the connection and streams pipeline events until the client
// disconnects.
func (h *MonitoringHandler) Events(w http.ResponseWriter, r *http.Request) {
	if _, err := h.JWTManager.ValidateToken(r.URL.Query().Get("token")); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.Hub.Register(conn)

	// Reader loop only drains control frames; unregister on any error
	go func() {
		defer h.Hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Status reports host and database health.
func (h *MonitoringHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := monitoring.CollectStatus(r.Context(), h.DB)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
