package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNoRun          = errors.New("no run published yet")
	ErrMemberNotFound = errors.New("member not found")
)
