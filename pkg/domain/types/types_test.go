package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

func TestPipelineValidation(t *testing.T) {
	tests := []struct {
		name     string
		pipeline types.Pipeline
		expected bool
	}{
		{"Valid stability", types.PipelineStability, true},
		{"Valid trend", types.PipelineTrend, true},
		{"Invalid empty", types.Pipeline(""), false},
		{"Invalid mixed case", types.Pipeline("Trend"), false},
		{"Invalid unknown", types.Pipeline("forecast"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.pipeline.IsValid()
			if result != tt.expected {
				t.Errorf("Pipeline(%q).IsValid() = %v, want %v", tt.pipeline, result, tt.expected)
			}
		})
	}
}

func TestPipelineHasPositionFilter(t *testing.T) {
	gt.True(t, types.PipelineStability.HasPositionFilter())
	gt.False(t, types.PipelineTrend.HasPositionFilter())
}

func TestColumnValidation(t *testing.T) {
	for _, c := range types.MeasurementColumns {
		gt.True(t, c.IsValid())
	}
	gt.False(t, types.Column("temperature").IsValid())
	gt.False(t, types.Column("").IsValid())
}

func TestTimePointPolicyValidation(t *testing.T) {
	gt.True(t, types.TimePointPolicyDrop.IsValid())
	gt.True(t, types.TimePointPolicyFail.IsValid())
	gt.False(t, types.TimePointPolicy("default").IsValid())
}

func TestNewGenerationID(t *testing.T) {
	a := types.NewGenerationID()
	b := types.NewGenerationID()
	gt.NotEqual(t, a, b)
	gt.Equal(t, len(a.String()), 36)
}
