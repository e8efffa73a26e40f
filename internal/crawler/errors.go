package crawler

import "errors"

var (
	// ErrPaginationFailed is returned when the page count of a search could
	// not be discovered. It wraps the fetcher error that caused it.
	ErrPaginationFailed = errors.New("pagination failed")

	// ErrRunInProgress is returned by Start while another run is active.
	ErrRunInProgress = errors.New("run already in progress")

	// ErrNoRun is returned when an operation needs a run and none exists.
	ErrNoRun = errors.New("no run")

	// ErrListingPageFailed marks a run that stopped on a listing page failure.
	ErrListingPageFailed = errors.New("listing page failed")
)
