package worker

import "errors"

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("worker pool stopped")
