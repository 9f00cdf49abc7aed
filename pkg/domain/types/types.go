package types

import (
	"github.com/google/uuid"
)

// Pipeline identifies one of the two dashboards served by the process
type Pipeline string

const (
	// PipelineStability filters by time, temperature and position and plots every row per position
	PipelineStability Pipeline = "stability"
	// PipelineTrend parses day numbers from time point labels and plots per-day averages
	PipelineTrend Pipeline = "trend"
)

// AllPipelines lists pipelines in display order
var AllPipelines = []Pipeline{PipelineStability, PipelineTrend}

// String returns the string representation
func (p Pipeline) String() string {
	return string(p)
}

// IsValid checks if the pipeline is known
func (p Pipeline) IsValid() bool {
	switch p {
	case PipelineStability, PipelineTrend:
		return true
	}
	return false
}

// HasPositionFilter reports whether the pipeline filters rows by position
func (p Pipeline) HasPositionFilter() bool {
	return p == PipelineStability
}

// Column names a measurement column of the stability_tests table
type Column string

const (
	ColumnMolecularWeight Column = "molecular_weight"
	ColumnVolume          Column = "volume"
	ColumnImpurity        Column = "impurity"
)

// MeasurementColumns lists measurement columns in table order
var MeasurementColumns = []Column{ColumnMolecularWeight, ColumnVolume, ColumnImpurity}

// String returns the string representation
func (c Column) String() string {
	return string(c)
}

// IsValid checks if the column is a measurement column
func (c Column) IsValid() bool {
	switch c {
	case ColumnMolecularWeight, ColumnVolume, ColumnImpurity:
		return true
	}
	return false
}

// TimePointPolicy decides what happens to rows whose time point label cannot be parsed
type TimePointPolicy string

const (
	// TimePointPolicyDrop rejects offending rows and reports them as warnings
	TimePointPolicyDrop TimePointPolicy = "drop"
	// TimePointPolicyFail aborts the whole load
	TimePointPolicyFail TimePointPolicy = "fail"
)

// String returns the string representation
func (p TimePointPolicy) String() string {
	return string(p)
}

// IsValid checks if the policy is known
func (p TimePointPolicy) IsValid() bool {
	return p == TimePointPolicyDrop || p == TimePointPolicyFail
}

// GenerationID identifies one successful load of the stability table
type GenerationID string

// String returns the string representation
func (id GenerationID) String() string {
	return string(id)
}

// NewGenerationID creates a new GenerationID
func NewGenerationID() GenerationID {
	return GenerationID(uuid.New().String())
}
