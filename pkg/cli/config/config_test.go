package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/cli/config"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadDashboardConfigFromFile(t *testing.T) {
	t.Run("partial override keeps defaults", func(t *testing.T) {
		path := writeFile(t, `
trend:
  title: Accelerated Stability Study
  charts:
    - column: volume
      title: Volume Over Time
      mode: mean
      series_name: Average Volume
chart_size:
  width: 800
  height: 400
`)
		cfg, err := config.LoadDashboardConfigFromFile(path)
		gt.NoError(t, err).Required()

		gt.Equal(t, cfg.Trend.Title, "Accelerated Stability Study")
		gt.Equal(t, cfg.Trend.TimeLabel, "Time (days)")
		gt.True(t, cfg.Trend.ShowRows)
		gt.A(t, cfg.Trend.Charts).Length(1)
		gt.Equal(t, cfg.Trend.Charts[0].Column, types.ColumnVolume)
		gt.Equal(t, cfg.Trend.Charts[0].Mode, model.ChartModeMean)

		gt.Equal(t, cfg.Stability.Title, "Drug Stability Testing Dashboard")
		gt.A(t, cfg.Stability.Charts).Length(3)
		gt.Equal(t, cfg.ChartSize, model.ChartSize{Width: 800, Height: 400})
	})

	t.Run("unknown column", func(t *testing.T) {
		path := writeFile(t, `
stability:
  charts:
    - column: density
      title: Density
      mode: by_position
`)
		_, err := config.LoadDashboardConfigFromFile(path)
		gt.Error(t, err)
	})

	t.Run("malformed YAML", func(t *testing.T) {
		_, err := config.LoadDashboardConfigFromFile(writeFile(t, "trend: [title"))
		gt.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadDashboardConfigFromFile(filepath.Join(t.TempDir(), "none.yaml"))
		gt.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := config.LoadDashboardConfigFromFile("")
		gt.Error(t, err)
	})
}

func TestDashboardConfigure(t *testing.T) {
	var d config.Dashboard
	cfg, err := d.Configure()
	gt.NoError(t, err).Required()
	gt.Equal(t, cfg, model.DefaultDashboardConfig())
}

func TestStore(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := config.Store{DSN: "stability_data.db"}
		repo, err := s.Configure()
		gt.NoError(t, err).Required()
		gt.Equal(t, repo.Table(), "stability_tests")
		gt.Equal(t, repo.Driver(), "sqlite")

		policy, err := s.Policy()
		gt.NoError(t, err)
		gt.Equal(t, policy, types.TimePointPolicyDrop)
	})

	t.Run("custom table and fail policy", func(t *testing.T) {
		s := config.Store{DSN: "postgres://lab@db/stability", Table: "lot_results", InvalidTimePoint: "fail"}
		repo, err := s.Configure()
		gt.NoError(t, err).Required()
		gt.Equal(t, repo.Table(), "lot_results")
		gt.Equal(t, repo.Driver(), "pgx")

		policy, err := s.Policy()
		gt.NoError(t, err)
		gt.Equal(t, policy, types.TimePointPolicyFail)
	})

	t.Run("invalid policy", func(t *testing.T) {
		s := config.Store{DSN: "stability_data.db", InvalidTimePoint: "zero"}
		_, err := s.Policy()
		gt.Error(t, err)
	})

	t.Run("invalid table", func(t *testing.T) {
		s := config.Store{DSN: "stability_data.db", Table: "a b"}
		_, err := s.Configure()
		gt.Error(t, err)
	})
}

func TestLogger(t *testing.T) {
	l := config.Logger{Level: "debug", Format: "json"}
	logger, err := l.Configure()
	gt.NoError(t, err)
	gt.NotNil(t, logger)

	gt.Error(t, (&config.Logger{Level: "trace"}).Validate())
	gt.Error(t, (&config.Logger{Level: "info", Format: "xml"}).Validate())
}
