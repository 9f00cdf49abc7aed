package model

import (
	"math"
	"sort"

	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// Point is one (time key, value) pair of a chart series
type Point struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of points
type Series []Point

// NamedSeries is a series with a legend label
type NamedSeries struct {
	Name   string `json:"name"`
	Points Series `json:"points"`
}

// MeanBy groups rows by time key and averages column within each group.
// The result is sorted ascending by time with one point per key. NaN
// measurements are skipped; a group without any value yields no point.
func (t *Table) MeanBy(column types.Column) Series {
	type acc struct {
		sum float64
		n   int
	}
	groups := make(map[float64]*acc)
	for _, r := range t.recordsOrNil() {
		v := r.Value(column)
		if math.IsNaN(v) {
			continue
		}
		g, ok := groups[r.Time]
		if !ok {
			g = &acc{}
			groups[r.Time] = g
		}
		g.sum += v
		g.n++
	}

	out := make(Series, 0, len(groups))
	for key, g := range groups {
		out = append(out, Point{Time: key, Value: g.sum / float64(g.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// SeriesByPosition plots every row, one series per position in first-seen
// order. Points keep table order within a series.
func (t *Table) SeriesByPosition(column types.Column) []NamedSeries {
	index := make(map[string]int)
	var out []NamedSeries
	for _, r := range t.recordsOrNil() {
		v := r.Value(column)
		if math.IsNaN(v) {
			continue
		}
		i, ok := index[r.Position]
		if !ok {
			i = len(out)
			index[r.Position] = i
			out = append(out, NamedSeries{Name: r.Position})
		}
		out[i].Points = append(out[i].Points, Point{Time: r.Time, Value: v})
	}
	if out == nil {
		return []NamedSeries{}
	}
	return out
}
