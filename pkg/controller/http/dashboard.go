package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
	"github.com/secmon-lab/stabdash/pkg/service/chart"
	"github.com/secmon-lab/stabdash/pkg/utils/apperr"
)

type dashboardLink struct {
	Title string
	URL   string
}

type indexPage struct {
	Title      string
	Dashboards []dashboardLink
}

type positionOption struct {
	Name     string
	Selected bool
}

type statRow struct {
	Name   string
	Values []*float64
}

type chartLink struct {
	Title string
	URL   string
}

type dashboardPage struct {
	Title          string
	Path           string
	Layout         *model.Layout
	View           *model.View
	PositionFilter bool
	Positions      []positionOption
	ShowRows       bool
	TimeColumn     string
	DaysColumn     bool
	Columns        []types.Column
	Counts         []int
	Stats          []statRow
	Charts         []chartLink
	CSVURL         string
	JSONURL        string
}

type errorPage struct {
	Title   string
	Message string
	Retry   string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Title: "Stability Dashboards"}
	cfg := s.dashboard.Config()
	for _, p := range types.AllPipelines {
		page.Dashboards = append(page.Dashboards, dashboardLink{
			Title: cfg.Layout(p).Title,
			URL:   "/" + p.String(),
		})
	}
	s.renderPage(w, r, http.StatusOK, "index.html", page)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	pipeline, ok := pipelineParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	view, err := s.view(r, pipeline)
	if err != nil {
		s.renderErrorPage(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "dashboard.html", s.buildDashboardPage(pipeline, view))
}

func (s *Server) handleViewJSON(w http.ResponseWriter, r *http.Request) {
	pipeline, ok := pipelineParam(r)
	if !ok {
		writeError(w, r, goerr.New("unknown pipeline", goerr.V("pipeline", chi.URLParam(r, "pipeline"))), http.StatusNotFound)
		return
	}

	view, err := s.view(r, pipeline)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

var csvHeader = []string{"time_point", "time", "temperature", "position", "molecular_weight", "volume", "impurity"}

func (s *Server) handleRowsCSV(w http.ResponseWriter, r *http.Request) {
	pipeline, ok := pipelineParam(r)
	if !ok {
		writeError(w, r, goerr.New("unknown pipeline", goerr.V("pipeline", chi.URLParam(r, "pipeline"))), http.StatusNotFound)
		return
	}

	view, err := s.view(r, pipeline)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	records := make([][]string, 0, len(view.Rows)+1)
	records = append(records, csvHeader)
	for _, row := range view.Rows {
		records = append(records, []string{
			row.TimePoint,
			csvNumber(row.Time),
			csvNumber(row.Temperature),
			row.Position,
			csvNumber(row.MolecularWeight),
			csvNumber(row.Volume),
			csvNumber(row.Impurity),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		s.handleError(w, r, goerr.Wrap(err, "failed to encode rows as CSV"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pipeline.String()+".csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write CSV response", "error", err)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	pipeline, ok := pipelineParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	column := types.Column(chi.URLParam(r, "column"))

	view, err := s.view(r, pipeline)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	c, ok := view.Chart(column)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := s.charts.RenderSVG(&buf, c); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write chart response", "error", err)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Reload(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (s *Server) view(r *http.Request, pipeline types.Pipeline) (*model.View, error) {
	input, err := ParseCriteria(r.URL.Query(), pipeline.HasPositionFilter())
	if err != nil {
		return nil, err
	}
	return s.dashboard.View(r.Context(), pipeline, input)
}

func (s *Server) buildDashboardPage(pipeline types.Pipeline, view *model.View) dashboardPage {
	layout := s.dashboard.Config().Layout(pipeline)
	query := EncodeCriteria(view.Criteria)

	page := dashboardPage{
		Title:          layout.Title,
		Path:           "/" + pipeline.String(),
		Layout:         layout,
		View:           view,
		PositionFilter: pipeline.HasPositionFilter(),
		ShowRows:       layout.ShowRows,
		TimeColumn:     "time",
		Columns:        types.MeasurementColumns,
		CSVURL:         "/api/" + pipeline.String() + "/rows.csv?" + query.Encode(),
		JSONURL:        "/api/" + pipeline.String() + "/view?" + query.Encode(),
	}
	if pipeline == types.PipelineTrend {
		page.TimeColumn = "time_point_days"
		page.DaysColumn = true
	}

	if page.PositionFilter {
		selected := make(map[string]bool, len(view.Criteria.Positions))
		for _, p := range view.Criteria.Positions {
			selected[p] = true
		}
		for _, p := range view.Bounds.Positions {
			page.Positions = append(page.Positions, positionOption{Name: p, Selected: selected[p]})
		}
	}

	for _, col := range types.MeasurementColumns {
		st, _ := view.Summary.Column(col)
		page.Counts = append(page.Counts, st.Count)
	}
	for _, stat := range model.SummaryStats {
		row := statRow{Name: stat.Name}
		for _, col := range types.MeasurementColumns {
			st, _ := view.Summary.Column(col)
			row.Values = append(row.Values, stat.Get(st))
		}
		page.Stats = append(page.Stats, row)
	}

	for _, c := range view.Charts {
		page.Charts = append(page.Charts, chartLink{
			Title: c.Title,
			URL:   (&url.URL{Path: "/charts/" + pipeline.String() + "/" + string(c.Column) + ".svg", RawQuery: query.Encode()}).String(),
		})
	}
	return page
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	// Execute into a buffer so a template failure can still produce a clean 500
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		apperr.Handle(r.Context(), goerr.Wrap(err, "failed to render page", goerr.V("template", name)))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write page", "error", err)
	}
}

// renderErrorPage shows a blocking page in place of the dashboard
func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	page := errorPage{Title: http.StatusText(status), Message: "An unexpected error occurred."}

	switch {
	case status == http.StatusBadRequest:
		page.Title = "Invalid filter"
		page.Message = errorMessage(err)
		page.Retry = r.URL.Path
	case errors.Is(err, model.ErrDataQuality):
		page.Title = "Data quality error"
		page.Message = "The stability table contains a time point that cannot be read: " + errorMessage(err)
		page.Retry = r.URL.RequestURI()
	case errors.Is(err, model.ErrDataSourceUnavailable):
		page.Title = "Data source unavailable"
		page.Message = "The stability table could not be loaded. Check that the database is reachable and contains the stability_tests table."
		page.Retry = r.URL.RequestURI()
	}
	logError(r, err, status)
	s.renderPage(w, r, status, "error.html", page)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	logError(r, err, status)
	writeError(w, r, err, status)
}

func logError(r *http.Request, err error, status int) {
	if status >= http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
		return
	}
	ctxlog.From(r.Context()).Info("Rejected request", "error", err, "status", status)
}

// errorStatus maps an error to the HTTP status reported to the client
func errorStatus(err error) int {
	switch {
	case goerr.HasTag(err, ErrTagBadRequest), errors.Is(err, model.ErrInvalidCriteria):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDataSourceUnavailable), errors.Is(err, model.ErrDataQuality):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if goErr := goerr.Unwrap(err); goErr != nil {
		return goErr.Error()
	}
	return err.Error()
}

func pipelineParam(r *http.Request) (types.Pipeline, bool) {
	p := types.Pipeline(chi.URLParam(r, "pipeline"))
	return p, p.IsValid()
}

func csvNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
