package rdb

import "errors"

var (
	ErrAlreadyExists     = errors.New("entry already exists")
	ErrUnknownIdentifier = errors.New("router id is not in the router id set")
	ErrInvalidArgs       = errors.New("invalid arguments")
	ErrInconsistency     = errors.New("link set and route set are inconsistent")
	// ErrStaleHandle is returned for a handle whose entry has been removed or evicted.
	ErrStaleHandle = staleHandleError{}
)

type staleHandleError struct{}

func (staleHandleError) Error() string {
	return "stale entry handle"
}

func (staleHandleError) Is(target error) bool {
	return target == ErrInvalidArgs
}
