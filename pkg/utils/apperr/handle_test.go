package apperr_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
	"github.com/secmon-lab/stabdash/pkg/utils/apperr"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	apperr.Handle(ctx, goerr.Wrap(model.ErrDataSourceUnavailable, "no such table"))
	gt.S(t, buf.String()).Contains(`"level":"WARN"`)

	buf.Reset()
	apperr.Handle(ctx, goerr.New("template failure"))
	gt.S(t, buf.String()).Contains(`"level":"ERROR"`)

	buf.Reset()
	apperr.Handle(ctx, nil)
	gt.Equal(t, buf.Len(), 0)
}
