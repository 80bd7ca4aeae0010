package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrRunInProgress = errors.New("a run is already in progress")
	ErrNoClient      = errors.New("no API client configured")
	ErrQueueRejected = errors.New("document queue rejected enqueue")
)
