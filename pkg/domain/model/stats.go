package model

import (
	"math"
	"sort"

	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// ColumnStats holds descriptive statistics for one measurement column.
// Nil fields are undefined: every statistic on zero rows, and Std on one row.
type ColumnStats struct {
	Column types.Column `json:"column"`
	Count  int          `json:"count"`
	Mean   *float64     `json:"mean"`
	Std    *float64     `json:"std"`
	Min    *float64     `json:"min"`
	Q25    *float64     `json:"q25"`
	Q50    *float64     `json:"q50"`
	Q75    *float64     `json:"q75"`
	Max    *float64     `json:"max"`
}

// Summary holds statistics for every measurement column in table order
type Summary struct {
	Columns []ColumnStats `json:"columns"`
}

// Stat names one row of the summary table
type Stat struct {
	Name string
	Get  func(ColumnStats) *float64
}

// SummaryStats lists the statistics in display order, after count
var SummaryStats = []Stat{
	{Name: "mean", Get: func(s ColumnStats) *float64 { return s.Mean }},
	{Name: "std", Get: func(s ColumnStats) *float64 { return s.Std }},
	{Name: "min", Get: func(s ColumnStats) *float64 { return s.Min }},
	{Name: "25%", Get: func(s ColumnStats) *float64 { return s.Q25 }},
	{Name: "50%", Get: func(s ColumnStats) *float64 { return s.Q50 }},
	{Name: "75%", Get: func(s ColumnStats) *float64 { return s.Q75 }},
	{Name: "max", Get: func(s ColumnStats) *float64 { return s.Max }},
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max of every measurement column. NaN measurements are not counted.
func (t *Table) Describe() Summary {
	s := Summary{Columns: make([]ColumnStats, 0, len(types.MeasurementColumns))}
	for _, col := range types.MeasurementColumns {
		values := make([]float64, 0, t.Len())
		for _, r := range t.recordsOrNil() {
			if v := r.Value(col); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		s.Columns = append(s.Columns, describe(col, values))
	}
	return s
}

// Column returns the statistics of col, or false if absent
func (s Summary) Column(col types.Column) (ColumnStats, bool) {
	for _, c := range s.Columns {
		if c.Column == col {
			return c, true
		}
	}
	return ColumnStats{}, false
}

func describe(col types.Column, values []float64) ColumnStats {
	st := ColumnStats{Column: col, Count: len(values)}
	n := len(values)
	if n == 0 {
		return st
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	st.Mean = ptr(mean)

	if n > 1 {
		var sq float64
		for _, v := range values {
			d := v - mean
			sq += d * d
		}
		st.Std = ptr(math.Sqrt(sq / float64(n-1)))
	}

	st.Min = ptr(sorted[0])
	st.Q25 = ptr(quantile(sorted, 0.25))
	st.Q50 = ptr(quantile(sorted, 0.50))
	st.Q75 = ptr(quantile(sorted, 0.75))
	st.Max = ptr(sorted[n-1])
	return st
}

// quantile interpolates linearly between the closest ranks of sorted
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func ptr(v float64) *float64 {
	return &v
}
