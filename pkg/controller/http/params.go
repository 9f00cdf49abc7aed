package http

import (
	"net/url"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/model"
)

// ErrTagBadRequest marks errors caused by malformed request parameters
var ErrTagBadRequest = goerr.NewTag("bad_request")

const (
	paramTimeMin      = "time_min"
	paramTimeMax      = "time_max"
	paramTempMin      = "temp_min"
	paramTempMax      = "temp_max"
	paramPosition     = "position"
	paramPositionsSet = "positions_set"
)

// ParseCriteria reads filter input from query parameters. Missing or empty
// bounds stay unset. Positions are only read when withPositions is true;
// they are nil unless at least one position or positions_set=1 was sent,
// which keeps "nothing selected" distinct from "no selection submitted".
func ParseCriteria(q url.Values, withPositions bool) (model.CriteriaInput, error) {
	var in model.CriteriaInput
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{paramTimeMin, &in.TimeMin},
		{paramTimeMax, &in.TimeMax},
		{paramTempMin, &in.TempMin},
		{paramTempMax, &in.TempMax},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.CriteriaInput{}, goerr.Wrap(err, "query parameter must be a number",
				goerr.V("parameter", p.name),
				goerr.V("value", raw),
				goerr.T(ErrTagBadRequest))
		}
		*p.dst = &v
	}

	if withPositions {
		if values, ok := q[paramPosition]; ok || q.Get(paramPositionsSet) == "1" {
			in.Positions = append([]string{}, values...)
		}
	}
	return in, nil
}

// EncodeCriteria is the inverse of ParseCriteria for resolved criteria
func EncodeCriteria(c model.FilterCriteria) url.Values {
	q := url.Values{}
	q.Set(paramTimeMin, formatBound(c.TimeRange.Min))
	q.Set(paramTimeMax, formatBound(c.TimeRange.Max))
	q.Set(paramTempMin, formatBound(c.TemperatureRange.Min))
	q.Set(paramTempMax, formatBound(c.TemperatureRange.Max))
	if c.Positions != nil {
		q.Set(paramPositionsSet, "1")
		for _, p := range c.Positions {
			q.Add(paramPosition, p)
		}
	}
	return q
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
