package results

import "errors"

// Sentinel errors.
var (
	ErrReadResults  = errors.New("read results")
	ErrWriteResults = errors.New("write results")
	ErrInvalidRow   = errors.New("invalid result row")
)
