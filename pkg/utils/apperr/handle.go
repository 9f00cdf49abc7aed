package apperr

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
)

// Handle logs an error that is reported to the user without being fixable
// by them. Data source failures are an operational condition and are
// logged as warnings; anything else is an application error.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := ctxlog.From(ctx)
	if errors.Is(err, model.ErrDataSourceUnavailable) || errors.Is(err, model.ErrDataQuality) {
		logger.Warn("stability data is not available", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
