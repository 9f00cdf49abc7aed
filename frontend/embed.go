package frontend

import (
	"embed"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"strconv"
)

// FS embeds page templates and static assets
//
//go:embed templates static
var FS embed.FS

// Templates parses every page template with the dashboard helper functions
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(FuncMap()).ParseFS(FS, "templates/*.html")
}

// GetHTTPFS returns the embedded static assets for HTTP serving
func GetHTTPFS() (http.FileSystem, error) {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}

// FuncMap returns the helpers available to page templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"num":   FormatNumber,
		"bound": FormatBound,
		"stat":  FormatStat,
	}
}

// FormatNumber formats a measurement for display. NaN (a missing value)
// renders as an empty cell.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// FormatBound formats a filter bound with the shortest representation that
// parses back to the same value, so a submitted form keeps its selection
func FormatBound(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatStat formats an optional statistic, "n/a" when undefined
func FormatStat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
