package cli

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/cli/config"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// newDashboard wires the store and presentation configuration into the
// dashboard use case shared by serve and view
func newDashboard(storeCfg *config.Store, dashboardCfg *config.Dashboard, opts ...usecase.DashboardOption) (*usecase.Dashboard, *model.DashboardConfig, error) {
	repo, err := storeCfg.Configure()
	if err != nil {
		return nil, nil, err
	}
	policy, err := storeCfg.Policy()
	if err != nil {
		return nil, nil, err
	}
	layout, err := dashboardCfg.Configure()
	if err != nil {
		return nil, nil, err
	}

	opts = append([]usecase.DashboardOption{usecase.WithTimePointPolicy(policy)}, opts...)
	dashboard, err := usecase.NewDashboard(repo, layout, opts...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create dashboard")
	}
	return dashboard, layout, nil
}
