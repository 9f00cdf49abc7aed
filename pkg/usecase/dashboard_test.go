package usecase_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
	"github.com/secmon-lab/stabdash/pkg/repository"
	"github.com/secmon-lab/stabdash/pkg/usecase"
)

type loadObservation struct {
	pipeline types.Pipeline
	rows     int
	dropped  int
	err      error
}

type recordingMetrics struct {
	mu    sync.Mutex
	loads []loadObservation
	views map[types.Pipeline]int
}

func (m *recordingMetrics) ObserveLoad(p types.Pipeline, rows, dropped int, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, loadObservation{pipeline: p, rows: rows, dropped: dropped, err: err})
}

func (m *recordingMetrics) ObserveView(p types.Pipeline, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.views == nil {
		m.views = make(map[types.Pipeline]int)
	}
	m.views[p]++
}

// mixedRecords has numeric labels for the stability pipeline and "Day N"
// labels the trend pipeline can parse, plus one row neither can parse
func mixedRecords() []model.StabilityRecord {
	return []model.StabilityRecord{
		{TimePoint: "0", Temperature: 25, Position: "Shelf-1", MolecularWeight: 150, Volume: 2, Impurity: 0.01},
		{TimePoint: "30", Temperature: 25, Position: "Shelf-1", MolecularWeight: 149, Volume: 2, Impurity: 0.05},
		{TimePoint: "30", Temperature: 40, Position: "Shelf-2", MolecularWeight: 147, Volume: 2, Impurity: 0.12},
		{TimePoint: "pending", Temperature: 40, Position: "Shelf-2", MolecularWeight: 140, Volume: 2, Impurity: 0.5},
	}
}

func TestDashboardView(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory(mixedRecords()...)
	metrics := &recordingMetrics{}
	loadedAt := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	dashboard, err := usecase.NewDashboard(repo, nil,
		usecase.WithMetrics(metrics),
		usecase.WithClock(func() time.Time { return loadedAt }),
	)
	gt.NoError(t, err).Required()

	t.Run("default criteria select every valid row", func(t *testing.T) {
		view, err := dashboard.View(ctx, types.PipelineStability, model.CriteriaInput{})
		gt.NoError(t, err).Required()
		gt.A(t, view.Rows).Length(3)
		gt.Equal(t, view.Criteria.Positions, []string{"Shelf-1", "Shelf-2"})
		gt.Equal(t, view.Bounds.Time, model.Range{Min: 0, Max: 30})
		gt.Equal(t, view.LoadedAt, loadedAt)
		gt.NotEqual(t, view.Generation, types.GenerationID(""))
	})

	t.Run("dataset carries the bounds of its table", func(t *testing.T) {
		data, err := dashboard.Dataset(ctx, types.PipelineStability)
		gt.NoError(t, err).Required()
		gt.Equal(t, data.Bounds, data.Table.Bounds())
		gt.Equal(t, data.Bounds.Time, model.Range{Min: 0, Max: 30})
	})

	t.Run("dropped rows surface as issues", func(t *testing.T) {
		view, err := dashboard.View(ctx, types.PipelineStability, model.CriteriaInput{})
		gt.NoError(t, err).Required()
		gt.A(t, view.Issues).Length(1)
		gt.Equal(t, view.Issues[0].TimePoint, "pending")
		gt.Equal(t, view.Issues[0].Row, 3)
	})

	t.Run("position and temperature filters", func(t *testing.T) {
		tempMin := 30.0
		view, err := dashboard.View(ctx, types.PipelineStability, model.CriteriaInput{
			TempMin:   &tempMin,
			Positions: []string{"Shelf-2"},
		})
		gt.NoError(t, err).Required()
		gt.A(t, view.Rows).Length(1)
		gt.Equal(t, view.Rows[0].Impurity, 0.12)
	})

	t.Run("trend pipeline ignores positions", func(t *testing.T) {
		view, err := dashboard.View(ctx, types.PipelineTrend, model.CriteriaInput{Positions: []string{"none"}})
		gt.NoError(t, err).Required()
		gt.A(t, view.Rows).Length(3)
		gt.Nil(t, view.Criteria.Positions)

		impurity, ok := view.Chart(types.ColumnImpurity)
		gt.True(t, ok)
		low, high := 0.05, 0.12
		gt.Equal(t, impurity.Series[0].Points, model.Series{
			{Time: 0, Value: 0.01},
			{Time: 30, Value: (low + high) / 2},
		})
	})

	t.Run("each pipeline loads once", func(t *testing.T) {
		gt.Equal(t, repo.Loads(), 2)
		gt.A(t, metrics.loads).Length(2)
		for _, l := range metrics.loads {
			gt.NoError(t, l.err)
			gt.Equal(t, l.rows, 3)
			gt.Equal(t, l.dropped, 1)
		}
		gt.Equal(t, metrics.views[types.PipelineStability], 3)
		gt.Equal(t, metrics.views[types.PipelineTrend], 1)
	})

	t.Run("reload runs the query again", func(t *testing.T) {
		before, err := dashboard.View(ctx, types.PipelineTrend, model.CriteriaInput{})
		gt.NoError(t, err).Required()

		repo.SetRecords(mixedRecords()[:2])
		gt.NoError(t, dashboard.Reload(ctx))
		gt.Equal(t, repo.Loads(), 4)

		after, err := dashboard.View(ctx, types.PipelineTrend, model.CriteriaInput{})
		gt.NoError(t, err).Required()
		gt.A(t, after.Rows).Length(2)
		gt.NotEqual(t, before.Generation, after.Generation)
	})

	t.Run("unknown pipeline", func(t *testing.T) {
		_, err := dashboard.View(ctx, types.Pipeline("forecast"), model.CriteriaInput{})
		gt.Error(t, err)
	})
}

func TestDashboardDataSourceUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory(mixedRecords()...)
	repo.SetError(goerr.Wrap(model.ErrDataSourceUnavailable, "failed to connect to database"))

	dashboard, err := usecase.NewDashboard(repo, nil)
	gt.NoError(t, err).Required()

	_, err = dashboard.View(ctx, types.PipelineStability, model.CriteriaInput{})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDataSourceUnavailable))

	gt.True(t, errors.Is(dashboard.Reload(ctx), model.ErrDataSourceUnavailable))
	gt.Error(t, dashboard.Warm(ctx))

	repo.SetError(nil)
	view, err := dashboard.View(ctx, types.PipelineStability, model.CriteriaInput{})
	gt.NoError(t, err)
	gt.A(t, view.Rows).Length(3)
	gt.NoError(t, dashboard.Warm(ctx))
}

func TestDashboardFailPolicy(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory(mixedRecords()...)

	dashboard, err := usecase.NewDashboard(repo, nil, usecase.WithTimePointPolicy(types.TimePointPolicyFail))
	gt.NoError(t, err).Required()

	_, err = dashboard.View(ctx, types.PipelineTrend, model.CriteriaInput{})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDataQuality))
	gt.Equal(t, goerr.Values(err)["time_point"], any("pending"))
}

func TestDashboardInvalidCriteria(t *testing.T) {
	ctx := context.Background()
	dashboard, err := usecase.NewDashboard(repository.NewMemory(mixedRecords()...), nil)
	gt.NoError(t, err).Required()

	nan := math.NaN()
	_, err = dashboard.View(ctx, types.PipelineTrend, model.CriteriaInput{TimeMin: &nan})
	gt.True(t, errors.Is(err, model.ErrInvalidCriteria))
}

func TestNewDashboard(t *testing.T) {
	t.Run("repository is required", func(t *testing.T) {
		_, err := usecase.NewDashboard(nil, nil)
		gt.Error(t, err)
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := usecase.NewDashboard(repository.NewMemory(), nil, usecase.WithTimePointPolicy("default"))
		gt.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := model.DefaultDashboardConfig()
		cfg.ChartSize.Height = 0
		_, err := usecase.NewDashboard(repository.NewMemory(), cfg)
		gt.Error(t, err)
	})

	t.Run("empty store renders empty views", func(t *testing.T) {
		dashboard, err := usecase.NewDashboard(repository.NewMemory(), nil)
		gt.NoError(t, err).Required()
		view, err := dashboard.View(context.Background(), types.PipelineStability, model.CriteriaInput{})
		gt.NoError(t, err)
		gt.True(t, view.IsEmpty())
	})
}
