package archive

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrNoMemberID      = errors.New("profile has no member id")
	ErrCorruptDocument = errors.New("corrupt profile document")
)
