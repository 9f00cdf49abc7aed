package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/cli/config"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdView() *cli.Command {
	var (
		storeCfg     config.Store
		dashboardCfg config.Dashboard

		pipeline                           string
		timeMin, timeMax, tempMin, tempMax float64
		positions                          []string
	)

	flags := joinFlags(
		storeCfg.Flags(),
		dashboardCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "pipeline",
				Aliases:     []string{"p"},
				Usage:       "Dashboard to compute (stability, trend)",
				Category:    "View",
				Value:       types.PipelineStability.String(),
				Destination: &pipeline,
			},
			&cli.FloatFlag{Name: "time-min", Usage: "Lower time bound", Category: "View", Destination: &timeMin},
			&cli.FloatFlag{Name: "time-max", Usage: "Upper time bound", Category: "View", Destination: &timeMax},
			&cli.FloatFlag{Name: "temp-min", Usage: "Lower temperature bound", Category: "View", Destination: &tempMin},
			&cli.FloatFlag{Name: "temp-max", Usage: "Upper temperature bound", Category: "View", Destination: &tempMax},
			&cli.StringSliceFlag{
				Name:        "position",
				Usage:       "Position to include, repeatable (stability only)",
				Category:    "View",
				Destination: &positions,
			},
		},
	)

	return &cli.Command{
		Name:  "view",
		Usage: "Compute a dashboard view and print it as JSON",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			p := types.Pipeline(pipeline)
			if !p.IsValid() {
				return goerr.New("unknown pipeline", goerr.V("pipeline", pipeline))
			}

			dashboard, _, err := newDashboard(&storeCfg, &dashboardCfg)
			if err != nil {
				return err
			}

			var input model.CriteriaInput
			for _, b := range []struct {
				flag  string
				value float64
				dst   **float64
			}{
				{"time-min", timeMin, &input.TimeMin},
				{"time-max", timeMax, &input.TimeMax},
				{"temp-min", tempMin, &input.TempMin},
				{"temp-max", tempMax, &input.TempMax},
			} {
				if c.IsSet(b.flag) {
					v := b.value
					*b.dst = &v
				}
			}
			if c.IsSet("position") {
				input.Positions = append([]string{}, positions...)
			}

			view, err := dashboard.View(ctx, p, input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(view); err != nil {
				return goerr.Wrap(err, "failed to write view")
			}
			return nil
		},
	}
}
