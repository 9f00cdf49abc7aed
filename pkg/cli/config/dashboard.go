package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Dashboard holds the presentation configuration source
type Dashboard struct {
	Path string
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dashboard-config",
			Usage:       "YAML file overriding dashboard titles, charts and chart size",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("STABDASH_DASHBOARD_CONFIG"),
			Destination: &d.Path,
		},
	}
}

// Configure returns the built-in configuration, overridden by the YAML
// file when one is set
func (d *Dashboard) Configure() (*model.DashboardConfig, error) {
	if d.Path == "" {
		return model.DefaultDashboardConfig(), nil
	}
	return LoadDashboardConfigFromFile(d.Path)
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", d.Path))
}

// LoadDashboardConfigFromFile loads a dashboard configuration from a YAML
// file. Keys absent from the file keep their built-in values.
func LoadDashboardConfigFromFile(path string) (*model.DashboardConfig, error) {
	if path == "" {
		return nil, goerr.New("configuration file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "configuration file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path))
	}

	config := model.DefaultDashboardConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML configuration",
			goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid configuration",
			goerr.V("path", path))
	}

	return config, nil
}
