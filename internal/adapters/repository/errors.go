package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNoRun = errors.New("no run computed yet")
)
