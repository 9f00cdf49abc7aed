package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/stabdash/pkg/domain/interfaces"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

const namespace = "stabdash"

// Recorder exports pipeline activity as Prometheus metrics
type Recorder struct {
	loads        *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
	rows         *prometheus.GaugeVec
	dropped      *prometheus.CounterVec
	views        *prometheus.CounterVec
	viewRows     *prometheus.HistogramVec
}

var _ interfaces.Metrics = (*Recorder)(nil)

// New creates a recorder and registers its collectors with reg
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_loads_total",
			Help:      "Loads of the stability table by pipeline and outcome.",
		}, []string{"pipeline", "status"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_load_duration_seconds",
			Help:      "Time spent querying and normalizing the stability table.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pipeline"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_loaded",
			Help:      "Rows held by the cached table of each pipeline.",
		}, []string{"pipeline"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows rejected because their time point could not be parsed.",
		}, []string{"pipeline"}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_total",
			Help:      "Dashboard views computed.",
		}, []string{"pipeline"}),
		viewRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_rows",
			Help:      "Rows matching the filter criteria of a view.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"pipeline"}),
	}

	for _, c := range []prometheus.Collector{r.loads, r.loadDuration, r.rows, r.dropped, r.views, r.viewRows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveLoad records the outcome of one table load
func (r *Recorder) ObserveLoad(pipeline types.Pipeline, rows, dropped int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.loads.WithLabelValues(pipeline.String(), status).Inc()
	r.loadDuration.WithLabelValues(pipeline.String()).Observe(duration.Seconds())
	if err != nil {
		return
	}
	r.rows.WithLabelValues(pipeline.String()).Set(float64(rows))
	r.dropped.WithLabelValues(pipeline.String()).Add(float64(dropped))
}

// ObserveView records one computed view
func (r *Recorder) ObserveView(pipeline types.Pipeline, rows int) {
	r.views.WithLabelValues(pipeline.String()).Inc()
	r.viewRows.WithLabelValues(pipeline.String()).Observe(float64(rows))
}
