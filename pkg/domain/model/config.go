package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// ChartSpec configures one chart of a dashboard
type ChartSpec struct {
	Column types.Column `yaml:"column"`
	Title  string       `yaml:"title"`
	Mode   ChartMode    `yaml:"mode"`
	// SeriesName labels the single series of a mean chart
	SeriesName string `yaml:"series_name,omitempty"`
	YLabel     string `yaml:"y_label,omitempty"`
}

// Validate validates the chart specification
func (c *ChartSpec) Validate() error {
	if !c.Column.IsValid() {
		return goerr.New("unknown measurement column", goerr.V("column", c.Column))
	}
	if c.Title == "" {
		return goerr.New("chart title is required", goerr.V("column", c.Column))
	}
	if c.Mode != ChartModeByPosition && c.Mode != ChartModeMean {
		return goerr.New("unknown chart mode", goerr.V("mode", c.Mode))
	}
	return nil
}

// Layout configures how one pipeline is presented
type Layout struct {
	Title     string      `yaml:"title"`
	TimeLabel string      `yaml:"time_label"`
	ShowRows  bool        `yaml:"show_rows"`
	Charts    []ChartSpec `yaml:"charts"`
}

// Validate validates the layout
func (l *Layout) Validate() error {
	if l.Title == "" {
		return goerr.New("layout title is required")
	}
	seen := make(map[types.Column]bool)
	for i := range l.Charts {
		if err := l.Charts[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid chart at index", goerr.V("index", i))
		}
		if seen[l.Charts[i].Column] {
			return goerr.New("duplicate chart column", goerr.V("column", l.Charts[i].Column))
		}
		seen[l.Charts[i].Column] = true
	}
	return nil
}

// ChartSize is the pixel size of rendered charts
type ChartSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DashboardConfig is the presentation configuration of both pipelines
type DashboardConfig struct {
	Stability Layout    `yaml:"stability"`
	Trend     Layout    `yaml:"trend"`
	ChartSize ChartSize `yaml:"chart_size"`
}

// Layout returns the layout of pipeline
func (c *DashboardConfig) Layout(p types.Pipeline) *Layout {
	switch p {
	case types.PipelineStability:
		return &c.Stability
	case types.PipelineTrend:
		return &c.Trend
	}
	return nil
}

// Validate validates the dashboard configuration
func (c *DashboardConfig) Validate() error {
	if err := c.Stability.Validate(); err != nil {
		return goerr.Wrap(err, "invalid stability layout")
	}
	if err := c.Trend.Validate(); err != nil {
		return goerr.Wrap(err, "invalid trend layout")
	}
	if c.ChartSize.Width < 100 || c.ChartSize.Height < 100 {
		return goerr.New("chart size must be at least 100x100",
			goerr.V("width", c.ChartSize.Width),
			goerr.V("height", c.ChartSize.Height))
	}
	return nil
}

// DefaultDashboardConfig returns the built-in layouts of both dashboards
func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Stability: Layout{
			Title:     "Drug Stability Testing Dashboard",
			TimeLabel: "Time (days)",
			Charts: []ChartSpec{
				{Column: types.ColumnMolecularWeight, Title: "Molecular Weight Over Time", Mode: ChartModeByPosition},
				{Column: types.ColumnVolume, Title: "Volume Over Time", Mode: ChartModeByPosition},
				{Column: types.ColumnImpurity, Title: "Impurity Over Time", Mode: ChartModeByPosition},
			},
		},
		Trend: Layout{
			Title:     "Stability Test Dashboard",
			TimeLabel: "Time (days)",
			ShowRows:  true,
			Charts: []ChartSpec{
				{Column: types.ColumnImpurity, Title: "Impurity Over Time", Mode: ChartModeMean, SeriesName: "Average Impurity"},
				{Column: types.ColumnMolecularWeight, Title: "Molecular Weight Over Time", Mode: ChartModeMean, SeriesName: "Average Molecular Weight"},
			},
		},
		ChartSize: ChartSize{Width: 640, Height: 360},
	}
}
