package source

import "errors"

// Sentinel kinds for source-load errors. A load failure is fatal: the
// core never runs on partial input.
var (
	ErrOpenSource     = errors.New("open source failed")
	ErrReadSource     = errors.New("read source failed")
	ErrMissingColumns = errors.New("required column missing")
)
