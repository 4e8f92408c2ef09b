package engine

import "errors"

var (
	// ErrRebalanceInProgress rejects a rebalancing trigger that arrives while
	// a prior invocation's trade batch is still executing.
	ErrRebalanceInProgress = errors.New("rebalancing already in progress")

	// ErrNotRunning rejects cycle work on a stopped engine.
	ErrNotRunning = errors.New("engine is not running")

	// ErrDataUnavailable marks a cycle that could not even begin because the
	// account or market data fetch failed. The engine stays running.
	ErrDataUnavailable = errors.New("market data unavailable")
)
