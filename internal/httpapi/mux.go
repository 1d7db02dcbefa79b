package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"pooltemps/internal/monitor"
)

func NewMux(db *sql.DB, m monitor.Monitor, loc *time.Location) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	NewPoolController(m, loc).RegisterRoutes(mux)
	return mux
}
