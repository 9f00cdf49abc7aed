package model

import (
	"time"

	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// ChartMode selects how a chart derives its series from the filtered table
type ChartMode string

const (
	// ChartModeByPosition plots every row with one series per position
	ChartModeByPosition ChartMode = "by_position"
	// ChartModeMean plots the per-time-key mean as a single series
	ChartModeMean ChartMode = "mean"
)

// Chart is a line chart ready to be rendered, x = time key, y = value
type Chart struct {
	Column types.Column  `json:"column"`
	Title  string        `json:"title"`
	XLabel string        `json:"x_label"`
	YLabel string        `json:"y_label"`
	Series []NamedSeries `json:"series"`
}

// IsEmpty reports whether the chart has no point to draw
func (c Chart) IsEmpty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// View is everything a dashboard displays for one set of criteria
type View struct {
	Pipeline   types.Pipeline     `json:"pipeline"`
	Title      string             `json:"title"`
	Criteria   FilterCriteria     `json:"criteria"`
	Bounds     Bounds             `json:"bounds"`
	Rows       []StabilityRecord  `json:"rows"`
	Summary    Summary            `json:"summary"`
	Charts     []Chart            `json:"charts"`
	Issues     []DataQualityIssue `json:"issues"`
	Generation types.GenerationID `json:"generation"`
	LoadedAt   time.Time          `json:"loaded_at"`
}

// Chart returns the chart for column, or false if the view has none
func (v *View) Chart(column types.Column) (Chart, bool) {
	for _, c := range v.Charts {
		if c.Column == column {
			return c, true
		}
	}
	return Chart{}, false
}

// IsEmpty reports whether no row matched the criteria
func (v *View) IsEmpty() bool {
	return len(v.Rows) == 0
}
