package httpapi

import (
	"net/http"
	"time"

	"pooltemps/internal/monitor"
)

type poolController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type poolControllerImpl struct {
	monitor monitor.Monitor
	loc     *time.Location
	now     func() time.Time
}

func NewPoolController(m monitor.Monitor, loc *time.Location) poolController {
	if loc == nil {
		loc = time.UTC
	}
	return &poolControllerImpl{monitor: m, loc: loc, now: time.Now}
}

func (c *poolControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("POST /submit", c.handleSubmit)
	mux.HandleFunc("GET /partials/chart", c.handleChartPartial)

	mux.HandleFunc("GET /api/v1/pools", c.handlePools)
	mux.HandleFunc("GET /api/v1/pools/{name}/readings", c.handleReadings)
	mux.HandleFunc("POST /api/v1/readings", c.handleSubmitAPI)
}
