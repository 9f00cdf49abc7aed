package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

// Dashboard computes dashboard views from the cached stability table
type Dashboard interface {
	// View loads (or reuses) the table of pipeline and computes the view for input
	View(ctx context.Context, pipeline types.Pipeline, input model.CriteriaInput) (*model.View, error)
	// Reload drops every cached table and loads them again
	Reload(ctx context.Context) error
	// Config returns the presentation configuration
	Config() *model.DashboardConfig
}

// Metrics observes pipeline activity
type Metrics interface {
	ObserveLoad(pipeline types.Pipeline, rows, dropped int, duration time.Duration, err error)
	ObserveView(pipeline types.Pipeline, rows int)
}
