package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/interfaces"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// Dashboard serves views of both pipelines from per-pipeline table caches
type Dashboard struct {
	repo    interfaces.StabilityRepository
	config  *model.DashboardConfig
	policy  types.TimePointPolicy
	metrics interfaces.Metrics
	now     func() time.Time

	caches map[types.Pipeline]*TableCache
}

var _ interfaces.Dashboard = (*Dashboard)(nil)

// DashboardOption configures a Dashboard
type DashboardOption func(*Dashboard)

// WithTimePointPolicy sets how unparseable time points are handled
func WithTimePointPolicy(policy types.TimePointPolicy) DashboardOption {
	return func(d *Dashboard) { d.policy = policy }
}

// WithMetrics sets the metrics sink
func WithMetrics(m interfaces.Metrics) DashboardOption {
	return func(d *Dashboard) { d.metrics = m }
}

// WithClock overrides the time source used to stamp loads
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

// NewDashboard creates a dashboard use case. A nil config selects the defaults.
func NewDashboard(repo interfaces.StabilityRepository, config *model.DashboardConfig, opts ...DashboardOption) (*Dashboard, error) {
	if repo == nil {
		return nil, goerr.New("stability repository is required")
	}
	if config == nil {
		config = model.DefaultDashboardConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid dashboard configuration")
	}

	d := &Dashboard{
		repo:    repo,
		config:  config,
		policy:  types.TimePointPolicyDrop,
		metrics: nopMetrics{},
		now:     time.Now,
		caches:  make(map[types.Pipeline]*TableCache, len(types.AllPipelines)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if !d.policy.IsValid() {
		return nil, goerr.New("invalid time point policy", goerr.V("policy", d.policy))
	}

	for _, p := range types.AllPipelines {
		pipeline := p
		d.caches[pipeline] = NewTableCache(func(ctx context.Context) (*model.Dataset, error) {
			return d.load(ctx, pipeline)
		})
	}
	return d, nil
}

// Config returns the presentation configuration
func (d *Dashboard) Config() *model.DashboardConfig {
	return d.config
}

// Dataset returns the cached, normalized table of pipeline
func (d *Dashboard) Dataset(ctx context.Context, pipeline types.Pipeline) (*model.Dataset, error) {
	cache, ok := d.caches[pipeline]
	if !ok {
		return nil, goerr.New("unknown pipeline", goerr.V("pipeline", pipeline))
	}
	return cache.Get(ctx)
}

// View resolves input against the table bounds and computes the view
func (d *Dashboard) View(ctx context.Context, pipeline types.Pipeline, input model.CriteriaInput) (*model.View, error) {
	data, err := d.Dataset(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	criteria, err := data.Bounds.Resolve(input, pipeline.HasPositionFilter())
	if err != nil {
		return nil, err
	}

	view := ComputeView(pipeline, d.config.Layout(pipeline), data.Table, data.Bounds, criteria)
	if len(data.Issues) > 0 {
		view.Issues = append(view.Issues, data.Issues...)
	}
	view.Generation = data.Generation
	view.LoadedAt = data.LoadedAt

	d.metrics.ObserveView(pipeline, len(view.Rows))
	return view, nil
}

// Reload invalidates every pipeline cache and loads them again. Every
// pipeline is attempted even when an earlier one fails.
func (d *Dashboard) Reload(ctx context.Context) error {
	var errs []error
	for _, p := range types.AllPipelines {
		if _, err := d.caches[p].Reload(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Warm loads every pipeline that is not cached yet
func (d *Dashboard) Warm(ctx context.Context) error {
	for _, p := range types.AllPipelines {
		if _, err := d.caches[p].Get(ctx); err != nil {
			return goerr.Wrap(err, "failed to warm pipeline", goerr.V("pipeline", p))
		}
	}
	return nil
}

func (d *Dashboard) load(ctx context.Context, pipeline types.Pipeline) (*model.Dataset, error) {
	logger := ctxlog.From(ctx)
	start := time.Now()

	data, err := d.loadAndNormalize(ctx, pipeline)
	rows, dropped := 0, 0
	if data != nil {
		rows, dropped = data.Table.Len(), len(data.Issues)
	}
	d.metrics.ObserveLoad(pipeline, rows, dropped, time.Since(start), err)

	if err != nil {
		if errors.Is(err, model.ErrDataQuality) {
			logger.Error("stability table rejected", "pipeline", pipeline, "error", err)
		}
		return nil, err
	}

	logger.Info("stability table loaded",
		"pipeline", pipeline,
		"generation", data.Generation,
		"rows", rows,
		"dropped", dropped,
		"duration", time.Since(start),
	)
	if dropped > 0 {
		logger.Warn("rows with invalid time points were dropped",
			"pipeline", pipeline,
			"dropped", dropped,
			"first", data.Issues[0],
		)
	}
	return data, nil
}

func (d *Dashboard) loadAndNormalize(ctx context.Context, pipeline types.Pipeline) (*model.Dataset, error) {
	records, err := d.repo.LoadStability(ctx)
	if err != nil {
		return nil, err
	}

	normalize := model.NormalizeNumeric
	if pipeline == types.PipelineTrend {
		normalize = model.NormalizeDays
	}
	normalized, issues, err := normalize(records, d.policy)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to normalize stability table", goerr.V("pipeline", pipeline))
	}

	table := model.NewTable(normalized)
	return &model.Dataset{
		Table:      table,
		Bounds:     table.Bounds(),
		Issues:     issues,
		Generation: types.NewGenerationID(),
		LoadedAt:   d.now(),
	}, nil
}

type nopMetrics struct{}

func (nopMetrics) ObserveLoad(types.Pipeline, int, int, time.Duration, error) {}
func (nopMetrics) ObserveView(types.Pipeline, int)                           {}
