package domain

import "errors"

var (
	// ErrUnconfiguredLocation is returned for a location without any plan source.
	ErrUnconfiguredLocation = errors.New("unconfigured location")
	// ErrPlanSourceMissing is returned by plan sources when no plan exists for a location.
	ErrPlanSourceMissing = errors.New("plan source missing")
	// ErrFactFetchFailed wraps failures of the remote fact source.
	ErrFactFetchFailed = errors.New("fact fetch failed")
	ErrUnknownNetwork  = errors.New("unknown network")
)
