package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/stabdash/pkg/domain/types"
)

var digitRun = regexp.MustCompile(`\d+`)

// TimeKeyParser derives the numeric time key from a time point label
type TimeKeyParser func(label string) (float64, error)

// ParseTimePointDays extracts the first run of decimal digits in label,
// so "Day 45" and "45" both yield 45
func ParseTimePointDays(label string) (float64, error) {
	run := digitRun.FindString(label)
	if run == "" {
		return 0, goerr.New("time point has no digits", goerr.V("time_point", label))
	}
	days, err := strconv.Atoi(run)
	if err != nil {
		return 0, goerr.Wrap(err, "time point day number out of range", goerr.V("time_point", label))
	}
	return float64(days), nil
}

// ParseNumericTimePoint requires the whole label to be a finite number
func ParseNumericTimePoint(label string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
	if err != nil {
		return 0, goerr.Wrap(err, "time point is not numeric", goerr.V("time_point", label))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, goerr.New("time point is not finite", goerr.V("time_point", label))
	}
	return v, nil
}

// DataQualityIssue describes a row rejected during normalization
type DataQualityIssue struct {
	// Row is the zero-based position of the row in the loaded result set
	Row       int    `json:"row"`
	TimePoint string `json:"time_point"`
	Position  string `json:"position"`
	Reason    string `json:"reason"`
}

// Normalize sets the time key of every record using parse. Rows that fail
// to parse are dropped and reported under TimePointPolicyDrop; under
// TimePointPolicyFail the first failure aborts with ErrDataQuality.
func Normalize(records []StabilityRecord, parse TimeKeyParser, policy types.TimePointPolicy) ([]StabilityRecord, []DataQualityIssue, error) {
	if !policy.IsValid() {
		return nil, nil, goerr.New("unknown time point policy", goerr.V("policy", policy))
	}

	out := make([]StabilityRecord, 0, len(records))
	var issues []DataQualityIssue
	for i, r := range records {
		key, err := parse(r.TimePoint)
		if err != nil {
			if policy == types.TimePointPolicyFail {
				return nil, nil, goerr.Wrap(ErrDataQuality, "failed to normalize time point",
					goerr.V("row", i),
					goerr.V("time_point", r.TimePoint),
					goerr.V("reason", err.Error()))
			}
			issues = append(issues, DataQualityIssue{
				Row:       i,
				TimePoint: r.TimePoint,
				Position:  r.Position,
				Reason:    err.Error(),
			})
			continue
		}
		r.Time = key
		out = append(out, r)
	}
	return out, issues, nil
}

// NormalizeDays applies ParseTimePointDays to every record
func NormalizeDays(records []StabilityRecord, policy types.TimePointPolicy) ([]StabilityRecord, []DataQualityIssue, error) {
	return Normalize(records, ParseTimePointDays, policy)
}

// NormalizeNumeric applies ParseNumericTimePoint to every record
func NormalizeNumeric(records []StabilityRecord, policy types.TimePointPolicy) ([]StabilityRecord, []DataQualityIssue, error) {
	return Normalize(records, ParseNumericTimePoint, policy)
}

// Dataset is a normalized table together with its load provenance
type Dataset struct {
	Table *Table
	// Bounds are the extents of Table, computed once per load
	Bounds     Bounds
	Issues     []DataQualityIssue
	Generation types.GenerationID
	LoadedAt   time.Time
}
