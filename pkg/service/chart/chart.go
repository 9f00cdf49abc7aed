package chart

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	gochart "github.com/wcharczuk/go-chart/v2"
)

// Renderer draws dashboard charts as SVG line charts
type Renderer struct {
	width  int
	height int
}

// New creates a renderer producing charts of the given pixel size
func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// ContentType is the media type written by RenderSVG
const ContentType = "image/svg+xml"

// RenderSVG writes c to w. A chart without points renders a placeholder
// instead of failing, so an empty filter result still shows a panel.
func (r *Renderer) RenderSVG(w io.Writer, c model.Chart) error {
	if c.IsEmpty() {
		return r.renderPlaceholder(w, c.Title)
	}

	var (
		series     []gochart.Series
		xMin, xMax = math.Inf(1), math.Inf(-1)
		yMin, yMax = math.Inf(1), math.Inf(-1)
	)
	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.Time, p.Value
			xMin, xMax = math.Min(xMin, p.Time), math.Max(xMax, p.Time)
			yMin, yMax = math.Min(yMin, p.Value), math.Max(yMax, p.Value)
		}
		color := gochart.GetDefaultColor(i)
		series = append(series, gochart.ContinuousSeries{
			Name: s.Name,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := gochart.Chart{
		Title:  c.Title,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:  c.XLabel,
			Range: paddedRange(xMin, xMax),
		},
		YAxis: gochart.YAxis{
			Name:  c.YLabel,
			Range: paddedRange(yMin, yMax),
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	// Render into a buffer so that a failure never leaves half an SVG on w
	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return goerr.Wrap(err, "failed to render chart",
			goerr.V("title", c.Title),
			goerr.V("series", len(series)))
	}
	if _, err := buf.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write chart")
	}
	return nil
}

// paddedRange returns nil (automatic range) unless all values coincide,
// in which case the range is widened so the axis has a non-zero span
func paddedRange(lo, hi float64) gochart.Range {
	if hi > lo {
		return nil
	}
	pad := math.Abs(lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func (r *Renderer) renderPlaceholder(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#ffffff" stroke="#d0d7de"/>`+
		`<text x="50%%" y="32" text-anchor="middle" font-family="sans-serif" font-size="15" fill="#24292f">%s</text>`+
		`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#6e7781">No data matches the selected filters</text>`+
		`</svg>`,
		r.width, r.height, r.width, r.height, html.EscapeString(title))
	if err != nil {
		return goerr.Wrap(err, "failed to write placeholder chart")
	}
	return nil
}
