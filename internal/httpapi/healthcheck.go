package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"pooltemps/internal/utils"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db *sql.DB
}

func NewHealthchecker(db *sql.DB) healthchecker {
	return &healthcheckerImpl{db: db}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	var ok int
	if err := h.db.QueryRowContext(r.Context(), `SELECT 1`).Scan(&ok); err != nil {
		slog.Error("failed to check database connectivity", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "failed to check database connectivity")
		return
	}
	var pools int
	if err := h.db.QueryRowContext(r.Context(), `SELECT count(DISTINCT pool_name) FROM temperatures`).Scan(&pools); err != nil {
		slog.Error("failed to read readings table", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "readings table unavailable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "poolsWithReadings": pools})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB) {
	healthchecker := NewHealthchecker(db)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
