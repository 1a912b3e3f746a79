package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingJudge = errors.New("missing " + judgeIDHeader + " header")
)
