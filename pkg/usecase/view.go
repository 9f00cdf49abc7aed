package usecase

import (
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// ComputeView filters table by criteria and derives the summary and charts
// described by layout. bounds must be the extents of table; they are taken
// as given so that callers holding a loaded dataset do not rescan it. It is
// a pure function of its arguments.
func ComputeView(pipeline types.Pipeline, layout *model.Layout, table *model.Table, bounds model.Bounds, criteria model.FilterCriteria) *model.View {
	filtered := table.Filter(criteria)

	view := &model.View{
		Pipeline: pipeline,
		Title:    layout.Title,
		Criteria: criteria,
		Bounds:   bounds,
		Rows:     filtered.Rows(),
		Summary:  filtered.Describe(),
		Charts:   make([]model.Chart, 0, len(layout.Charts)),
		Issues:   []model.DataQualityIssue{},
	}

	for _, spec := range layout.Charts {
		chart := model.Chart{
			Column: spec.Column,
			Title:  spec.Title,
			XLabel: layout.TimeLabel,
			YLabel: spec.YLabel,
		}
		if chart.YLabel == "" {
			chart.YLabel = spec.Column.String()
		}

		switch spec.Mode {
		case model.ChartModeMean:
			name := spec.SeriesName
			if name == "" {
				name = spec.Column.String()
			}
			chart.Series = []model.NamedSeries{{Name: name, Points: filtered.MeanBy(spec.Column)}}
		default:
			chart.Series = filtered.SeriesByPosition(spec.Column)
		}
		view.Charts = append(view.Charts, chart)
	}

	return view
}
