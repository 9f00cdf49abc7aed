package interfaces

import (
	"context"

	"github.com/secmon-lab/stabdash/pkg/domain/model"
)

// StabilityRepository reads stability test records from a store
type StabilityRepository interface {
	// LoadStability returns every row of the stability table in store order.
	// It never writes to the store.
	LoadStability(ctx context.Context) ([]model.StabilityRecord, error)
}
