package testutil

import "errors"

// ErrSimulated is a sentinel error for testing error handling paths
// (unreachable key sources, failing caches).
var ErrSimulated = errors.New("simulated error for testing")
