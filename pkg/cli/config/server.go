package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr    string
	Metrics bool
	Warmup  bool
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("STABDASH_ADDR"),
			Destination: &s.Addr,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Category:    "Server",
			Value:       true,
			Sources:     cli.EnvVars("STABDASH_METRICS"),
			Destination: &s.Metrics,
		},
		&cli.BoolFlag{
			Name:        "warmup",
			Usage:       "Load both dashboards in the background at startup",
			Category:    "Server",
			Value:       true,
			Sources:     cli.EnvVars("STABDASH_WARMUP"),
			Destination: &s.Warmup,
		},
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Bool("metrics", s.Metrics),
		slog.Bool("warmup", s.Warmup),
	)
}
