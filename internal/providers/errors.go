package providers

import "errors"

// ErrUpstreamUnavailable signals total inability to reach the primary data
// source. It is the only upstream failure surfaced to callers; per-game
// detail failures are demoted to silent drops by the aggregator.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")
