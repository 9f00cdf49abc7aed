package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the load and filter pipeline
var (
	// ErrDataSourceUnavailable is returned when the store or its table cannot be read
	ErrDataSourceUnavailable = goerr.New("data source unavailable")
	// ErrDataQuality is returned when a row cannot be normalized and the policy is fail
	ErrDataQuality = goerr.New("invalid time point")
	// ErrInvalidCriteria is returned for malformed filter input
	ErrInvalidCriteria = goerr.New("invalid filter criteria")
)
