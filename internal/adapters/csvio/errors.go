package csvio

import "errors"

// Sentinel kinds for CSV handling.
var (
	ErrEmptyRoster = errors.New("empty roster payload")
)
