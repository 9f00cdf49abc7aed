package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/repository"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory(model.StabilityRecord{TimePoint: "Day 1", Position: "A"})

	records, err := repo.LoadStability(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(1)

	records[0].Position = "changed"
	again, err := repo.LoadStability(ctx)
	gt.NoError(t, err)
	gt.Equal(t, again[0].Position, "A")
	gt.Equal(t, repo.Loads(), 2)

	repo.SetError(goerr.New("boom"))
	_, err = repo.LoadStability(ctx)
	gt.Error(t, err)

	repo.SetError(nil)
	repo.SetRecords(nil)
	records, err = repo.LoadStability(ctx)
	gt.NoError(t, err)
	gt.A(t, records).Length(0)
}
