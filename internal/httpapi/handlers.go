package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"pooltemps/internal/chart"
	"pooltemps/internal/monitor"
	"pooltemps/internal/readings"
	"pooltemps/internal/utils"
	"pooltemps/internal/views"
)

func (c *poolControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := c.dashboardData(r.Context(), nil, nil)
	if err != nil {
		slog.Error("dashboard: load charts failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}
	c.renderDashboard(w, http.StatusOK, data)
}

func (c *poolControllerImpl) handleSubmit(w http.ResponseWriter, r *http.Request) {
	inputs, err := parseSubmitForm(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, submitErr := c.monitor.Submit(r.Context(), inputs, monitor.Discard)

	// Saved pools get an empty input; skipped ones keep what was typed.
	kept := make(map[string]string, len(inputs))
	for pool, raw := range inputs {
		if !res.Saved(pool) {
			kept[pool] = raw
		}
	}

	data, err := c.dashboardData(r.Context(), kept, res.Refreshed)
	if err != nil && submitErr == nil {
		slog.Error("submit: load charts failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}
	data.SubmissionID = res.SubmissionID
	for _, warning := range res.Warnings {
		data.Alerts = append(data.Alerts, views.AlertFromWarning(warning))
	}

	status := http.StatusOK
	if submitErr != nil {
		slog.Error("submit failed", "submission_id", res.SubmissionID, "error", submitErr)
		data.Error = "Could not save readings: " + submitErr.Error()
		status = http.StatusInternalServerError
	}
	c.renderDashboard(w, status, data)
}

func (c *poolControllerImpl) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	pool := strings.TrimSpace(r.URL.Query().Get("pool"))
	if pool == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing pool")
		return
	}
	rf, err := c.monitor.Today(r.Context(), pool)
	if err != nil {
		c.writeLookupError(w, pool, err)
		return
	}
	ch := chart.Build(rf.Pool, rf.Points, rf.Ideal, c.now(), c.loc)
	if err := utils.WriteHTML(w, http.StatusOK, func(out io.Writer) error {
		return views.RenderChart(out, &ch)
	}); err != nil {
		slog.Error("chart partial render failed", "pool", pool, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
	}
}

func (c *poolControllerImpl) handlePools(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.monitor.Pools())
}

func (c *poolControllerImpl) handleReadings(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing pool name")
		return
	}

	scope, err := parseReadingsQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rf monitor.Refresh
	if scope == readings.ScopeAll {
		rf, err = c.monitor.History(r.Context(), name)
	} else {
		rf, err = c.monitor.Today(r.Context(), name)
	}
	if err != nil {
		c.writeLookupError(w, name, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rf)
}

func (c *poolControllerImpl) handleSubmitAPI(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := c.monitor.Submit(r.Context(), req.Inputs, monitor.Discard)
	if err != nil {
		slog.Error("api submit failed", "submission_id", res.SubmissionID, "error", err)
		// Pools before the failure are stored; report them with the error.
		utils.WriteJSON(w, http.StatusInternalServerError, submitErrorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			Message: err.Error(),
			Result:  res,
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// submitErrorResponse is the 500 body of POST /api/v1/readings.
type submitErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	monitor.Result
}

// dashboardData builds one card per pool in configuration order, each with
// today's chart. inputs pre-fills the text fields. Pools found in refreshed
// are drawn from it; the rest are queried.
func (c *poolControllerImpl) dashboardData(ctx context.Context, inputs map[string]string, refreshed []monitor.Refresh) (*views.DashboardData, error) {
	now := c.now()
	data := &views.DashboardData{Timezone: c.loc.String()}
	known := make(map[string]monitor.Refresh, len(refreshed))
	for _, rf := range refreshed {
		known[rf.Pool] = rf
	}
	var firstErr error
	for _, pool := range c.monitor.Pools() {
		rf, ok := known[pool.Name]
		if !ok {
			var err error
			rf, err = c.monitor.Today(ctx, pool.Name)
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
		data.Pools = append(data.Pools, views.PoolView{
			Name:  pool.Name,
			High:  pool.High,
			Low:   pool.Low,
			Ideal: pool.Ideal,
			Input: inputs[pool.Name],
			Chart: chart.Build(pool.Name, rf.Points, pool.Ideal, now, c.loc),
		})
	}
	return data, firstErr
}

func (c *poolControllerImpl) renderDashboard(w http.ResponseWriter, status int, data *views.DashboardData) {
	if err := utils.WriteHTML(w, status, func(out io.Writer) error {
		return views.RenderDashboard(out, data)
	}); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *poolControllerImpl) writeLookupError(w http.ResponseWriter, pool string, err error) {
	if errors.Is(err, monitor.ErrUnknownPool) {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	slog.Error("load readings failed", "pool", pool, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
}
