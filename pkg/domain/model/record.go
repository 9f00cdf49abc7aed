package model

import (
	"encoding/json"
	"math"

	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// StabilityRecord is one row of the stability_tests table
type StabilityRecord struct {
	// TimePoint is the label as stored, e.g. "30" or "Day 30"
	TimePoint string `json:"time_point"`
	// Time is the numeric time key derived from TimePoint by a normalizer
	Time            float64 `json:"time"`
	Temperature     float64 `json:"temperature"`
	Position        string  `json:"position"`
	MolecularWeight float64 `json:"molecular_weight"`
	Volume          float64 `json:"volume"`
	Impurity        float64 `json:"impurity"`
}

// Value returns the measurement stored in the given column, or NaN for an
// unknown column
func (r StabilityRecord) Value(column types.Column) float64 {
	switch column {
	case types.ColumnMolecularWeight:
		return r.MolecularWeight
	case types.ColumnVolume:
		return r.Volume
	case types.ColumnImpurity:
		return r.Impurity
	}
	return math.NaN()
}

// TimePointDays returns the day number for records normalized with NormalizeDays
func (r StabilityRecord) TimePointDays() int {
	return int(r.Time)
}

type recordJSON struct {
	TimePoint       string   `json:"time_point"`
	Time            float64  `json:"time"`
	Temperature     *float64 `json:"temperature"`
	Position        string   `json:"position"`
	MolecularWeight *float64 `json:"molecular_weight"`
	Volume          *float64 `json:"volume"`
	Impurity        *float64 `json:"impurity"`
}

// MarshalJSON encodes missing (NaN) values as null
func (r StabilityRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		TimePoint:       r.TimePoint,
		Time:            r.Time,
		Temperature:     finite(r.Temperature),
		Position:        r.Position,
		MolecularWeight: finite(r.MolecularWeight),
		Volume:          finite(r.Volume),
		Impurity:        finite(r.Impurity),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
