package cav

import "errors"

// Sentinel kinds for API errors.
var (
	ErrNotFound         = errors.New("no record found")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)
