package broadcast

import "errors"

// ErrHubFull is returned when the live feed is at its connection limit.
var ErrHubFull = errors.New("live feed is full")

// ErrHubStopped is returned when the hub has already shut down.
var ErrHubStopped = errors.New("live feed hub is stopped")
