package interfaces

import (
	"io"

	"github.com/secmon-lab/stabdash/pkg/domain/model"
)

// ChartRenderer draws a chart as an SVG document
type ChartRenderer interface {
	RenderSVG(w io.Writer, c model.Chart) error
}
