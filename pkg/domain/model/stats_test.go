package model_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

func approx(t *testing.T, got *float64, want float64) {
	t.Helper()
	gt.NotNil(t, got)
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("got %v, want %v", *got, want)
	}
}

func TestDescribe(t *testing.T) {
	table := model.NewTable([]model.StabilityRecord{
		{Time: 0, MolecularWeight: 1, Volume: 10, Impurity: 0.1},
		{Time: 1, MolecularWeight: 2, Volume: 10, Impurity: 0.2},
		{Time: 2, MolecularWeight: 3, Volume: 10, Impurity: 0.3},
		{Time: 3, MolecularWeight: 4, Volume: 10, Impurity: math.NaN()},
	})
	summary := table.Describe()
	gt.A(t, summary.Columns).Length(3)

	t.Run("molecular weight", func(t *testing.T) {
		mw, ok := summary.Column(types.ColumnMolecularWeight)
		gt.True(t, ok)
		gt.Equal(t, mw.Count, 4)
		approx(t, mw.Mean, 2.5)
		approx(t, mw.Std, math.Sqrt(5.0/3.0))
		approx(t, mw.Min, 1)
		approx(t, mw.Q25, 1.75)
		approx(t, mw.Q50, 2.5)
		approx(t, mw.Q75, 3.25)
		approx(t, mw.Max, 4)
	})

	t.Run("constant column has zero spread", func(t *testing.T) {
		vol, ok := summary.Column(types.ColumnVolume)
		gt.True(t, ok)
		approx(t, vol.Std, 0)
		approx(t, vol.Q25, 10)
	})

	t.Run("NaN is not counted", func(t *testing.T) {
		imp, ok := summary.Column(types.ColumnImpurity)
		gt.True(t, ok)
		gt.Equal(t, imp.Count, 3)
		approx(t, imp.Mean, 0.2)
		approx(t, imp.Max, 0.3)
	})
}

func TestDescribeSingleRow(t *testing.T) {
	summary := model.NewTable([]model.StabilityRecord{{MolecularWeight: 100, Volume: 1, Impurity: 0.5}}).Describe()
	mw, ok := summary.Column(types.ColumnMolecularWeight)
	gt.True(t, ok)
	gt.Equal(t, mw.Count, 1)
	approx(t, mw.Mean, 100)
	gt.Nil(t, mw.Std)
	approx(t, mw.Q25, 100)
	approx(t, mw.Q75, 100)
}

func TestDescribeEmpty(t *testing.T) {
	summary := model.NewTable(nil).Describe()
	gt.A(t, summary.Columns).Length(3)
	for _, col := range summary.Columns {
		gt.Equal(t, col.Count, 0)
		for _, stat := range model.SummaryStats {
			gt.Nil(t, stat.Get(col))
		}
	}
}
