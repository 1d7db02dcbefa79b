package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"pooltemps/internal/chart"
	"pooltemps/internal/monitor"
)

var dashboardTmpl *template.Template

const (
	formFieldPrefix = "temp["
	formFieldSuffix = "]"
)

var templateFuncs = template.FuncMap{
	"formField": FormField,
}

// FormField is the dashboard input name for pool.
func FormField(pool string) string {
	return formFieldPrefix + pool + formFieldSuffix
}

// PoolFromFormField reverses FormField. ok is false for any other key.
func PoolFromFormField(key string) (pool string, ok bool) {
	if !strings.HasPrefix(key, formFieldPrefix) || !strings.HasSuffix(key, formFieldSuffix) {
		return "", false
	}
	pool = strings.TrimSuffix(strings.TrimPrefix(key, formFieldPrefix), formFieldSuffix)
	return pool, pool != ""
}

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	dashboardTmpl, err = template.New("views").Funcs(templateFuncs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Alert is a warning as shown on the dashboard.
type Alert struct {
	Title   string
	Message string
	Class   string
}

func AlertFromWarning(w monitor.Warning) Alert {
	class := "alert-entry"
	if w.Kind == monitor.TooHot || w.Kind == monitor.TooCold {
		class = "alert-temperature"
	}
	return Alert{Title: w.Title(), Message: w.Message(), Class: class}
}

// PoolView is one pool card: its thresholds, the text left in its input and
// today's chart.
type PoolView struct {
	Name  string
	High  float64
	Low   float64
	Ideal float64
	Input string
	Chart chart.Chart
}

func (p PoolView) Slug() string {
	return strings.ToLower(strings.Join(strings.Fields(p.Name), "-"))
}

type DashboardData struct {
	Pools        []PoolView
	Alerts       []Alert
	SubmissionID string
	// Error is shown as a banner when a submission failed to store.
	Error    string
	Timezone string
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderChart executes only the chart partial into w.
func RenderChart(w io.Writer, c *chart.Chart) error {
	if dashboardTmpl == nil {
		return errors.New("chart template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "chart", c)
}
