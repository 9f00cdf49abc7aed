package chart_test

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
	"github.com/secmon-lab/stabdash/pkg/service/chart"
)

func TestRenderSVG(t *testing.T) {
	renderer := chart.New(640, 360)

	t.Run("multi-series chart", func(t *testing.T) {
		var buf bytes.Buffer
		err := renderer.RenderSVG(&buf, model.Chart{
			Column: types.ColumnImpurity,
			Title:  "Impurity Over Time",
			XLabel: "Time (days)",
			YLabel: "impurity",
			Series: []model.NamedSeries{
				{Name: "Shelf-1", Points: model.Series{{Time: 0, Value: 0.01}, {Time: 30, Value: 0.05}, {Time: 90, Value: 0.09}}},
				{Name: "Shelf-2", Points: model.Series{{Time: 0, Value: 0.02}, {Time: 30, Value: 0.12}}},
			},
		})
		gt.NoError(t, err).Required()
		gt.S(t, buf.String()).Contains("<svg")
		gt.S(t, buf.String()).Contains("Shelf-2")
	})

	t.Run("single point does not fail", func(t *testing.T) {
		var buf bytes.Buffer
		err := renderer.RenderSVG(&buf, model.Chart{
			Title:  "Average Impurity",
			Series: []model.NamedSeries{{Name: "Average Impurity", Points: model.Series{{Time: 10, Value: 0.1}}}},
		})
		gt.NoError(t, err)
		gt.S(t, buf.String()).Contains("<svg")
	})

	t.Run("flat series does not fail", func(t *testing.T) {
		var buf bytes.Buffer
		err := renderer.RenderSVG(&buf, model.Chart{
			Title:  "Volume Over Time",
			Series: []model.NamedSeries{{Name: "A", Points: model.Series{{Time: 0, Value: 0}, {Time: 30, Value: 0}}}},
		})
		gt.NoError(t, err)
	})

	t.Run("empty chart renders a placeholder", func(t *testing.T) {
		var buf bytes.Buffer
		err := renderer.RenderSVG(&buf, model.Chart{Title: "Volume <Over> Time", Series: []model.NamedSeries{}})
		gt.NoError(t, err)
		gt.S(t, buf.String()).Contains("No data matches")
		gt.S(t, buf.String()).Contains("Volume &lt;Over&gt; Time")
	})
}
