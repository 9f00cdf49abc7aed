package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
	"github.com/secmon-lab/stabdash/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Store holds the data source configuration
type Store struct {
	DSN              string
	Table            string
	InvalidTimePoint string
}

// Flags returns CLI flags for Store configuration
func (s *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db",
			Usage:       "SQLite database file, or a postgres:// DSN",
			Category:    "Store",
			Value:       "stability_data.db",
			Sources:     cli.EnvVars("STABDASH_DB"),
			Destination: &s.DSN,
		},
		&cli.StringFlag{
			Name:        "table",
			Usage:       "Table holding stability test results",
			Category:    "Store",
			Value:       repository.DefaultTable,
			Sources:     cli.EnvVars("STABDASH_TABLE"),
			Destination: &s.Table,
		},
		&cli.StringFlag{
			Name:        "invalid-time-point",
			Usage:       "What to do with rows whose time point cannot be read (drop, fail)",
			Category:    "Store",
			Value:       string(types.TimePointPolicyDrop),
			Sources:     cli.EnvVars("STABDASH_INVALID_TIME_POINT"),
			Destination: &s.InvalidTimePoint,
		},
	}
}

// Configure creates the SQL repository
func (s *Store) Configure() (*repository.SQL, error) {
	table := s.Table
	if table == "" {
		table = repository.DefaultTable
	}
	repo, err := repository.NewSQL(s.DSN, repository.WithTable(table))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure store",
			goerr.V("db", repository.RedactDSN(s.DSN)),
			goerr.V("table", table))
	}
	return repo, nil
}

// Policy returns the configured time point policy
func (s *Store) Policy() (types.TimePointPolicy, error) {
	if s.InvalidTimePoint == "" {
		return types.TimePointPolicyDrop, nil
	}
	policy := types.TimePointPolicy(s.InvalidTimePoint)
	if !policy.IsValid() {
		return "", goerr.New("invalid time point policy, expected drop or fail",
			goerr.V("policy", s.InvalidTimePoint))
	}
	return policy, nil
}

// LogValue returns structured log value
func (s Store) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("db", repository.RedactDSN(s.DSN)),
		slog.String("table", s.Table),
		slog.String("invalid_time_point", s.InvalidTimePoint),
	)
}
