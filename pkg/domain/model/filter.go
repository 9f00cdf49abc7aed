package model

import (
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// Range is a closed interval [Min, Max]. A range with Min > Max contains nothing.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range, both ends inclusive
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsEmpty reports whether no value can satisfy the range
func (r Range) IsEmpty() bool {
	return r.Min > r.Max
}

func (r Range) extend(v float64) Range {
	if math.IsNaN(v) {
		return r
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// FilterCriteria holds the user's selection. Predicates are combined with AND.
type FilterCriteria struct {
	TimeRange        Range `json:"time_range"`
	TemperatureRange Range `json:"temperature_range"`
	// Positions restricts rows to the listed labels when non-nil. A non-nil
	// empty slice matches no rows.
	Positions []string `json:"positions,omitempty"`
}

// Bounds describes the extents of a loaded table
type Bounds struct {
	Time        Range    `json:"time"`
	Temperature Range    `json:"temperature"`
	Positions   []string `json:"positions"`
}

// DefaultCriteria returns criteria selecting every row of the table the
// bounds were computed from
func (b Bounds) DefaultCriteria(withPositions bool) FilterCriteria {
	c := FilterCriteria{
		TimeRange:        b.Time,
		TemperatureRange: b.Temperature,
	}
	if withPositions {
		c.Positions = append([]string{}, b.Positions...)
	}
	return c
}

// Clamp limits both ranges of c to the data bounds, the way a range slider
// cannot move past its track. Min and Max are clamped independently, so a
// reversed range stays reversed.
func (b Bounds) Clamp(c FilterCriteria) FilterCriteria {
	c.TimeRange = Range{
		Min: clamp(c.TimeRange.Min, b.Time.Min, b.Time.Max),
		Max: clamp(c.TimeRange.Max, b.Time.Min, b.Time.Max),
	}
	c.TemperatureRange = Range{
		Min: clamp(c.TemperatureRange.Min, b.Temperature.Min, b.Temperature.Max),
		Max: clamp(c.TemperatureRange.Max, b.Temperature.Min, b.Temperature.Max),
	}
	return c
}

// CriteriaInput carries raw, possibly partial, user input. Unset bounds
// fall back to the data extents.
type CriteriaInput struct {
	TimeMin *float64
	TimeMax *float64
	TempMin *float64
	TempMax *float64
	// Positions is nil when the user did not submit a selection
	Positions []string
}

// Resolve turns input into concrete criteria against the bounds of a table
func (b Bounds) Resolve(in CriteriaInput, withPositions bool) (FilterCriteria, error) {
	for _, p := range []struct {
		name  string
		value *float64
	}{
		{"time_min", in.TimeMin},
		{"time_max", in.TimeMax},
		{"temp_min", in.TempMin},
		{"temp_max", in.TempMax},
	} {
		if v := p.value; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return FilterCriteria{}, goerr.Wrap(ErrInvalidCriteria, "bound must be a finite number",
				goerr.V("parameter", p.name),
				goerr.V("value", *v))
		}
	}

	c := b.DefaultCriteria(withPositions)
	if in.TimeMin != nil {
		c.TimeRange.Min = *in.TimeMin
	}
	if in.TimeMax != nil {
		c.TimeRange.Max = *in.TimeMax
	}
	if in.TempMin != nil {
		c.TemperatureRange.Min = *in.TempMin
	}
	if in.TempMax != nil {
		c.TemperatureRange.Max = *in.TempMax
	}
	if withPositions && in.Positions != nil {
		c.Positions = append([]string{}, in.Positions...)
	}
	return b.Clamp(c), nil
}
