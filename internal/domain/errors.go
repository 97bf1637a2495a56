package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and handlers.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("already exists")
	ErrNoCachedEvents = errors.New("no cached events available")
)

// SourceFormatError reports a tabular feed payload that is not the expected
// wrapped-JSON shape or whose status is not "ok".
type SourceFormatError struct {
	Feed   string
	Reason string
	Err    error
}

func (e *SourceFormatError) Error() string {
	msg := "source format error"
	if e.Feed != "" {
		msg += " (" + e.Feed + ")"
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SourceFormatError) Unwrap() error { return e.Err }
