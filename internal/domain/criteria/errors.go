package criteria

import "errors"

// Sentinel kinds for schema errors.
var (
	ErrInvalidSchema = errors.New("invalid criteria schema")
)
