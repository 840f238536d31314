package routing

import "errors"

var (
	// ErrUnavailable covers network and service failures.
	ErrUnavailable = errors.New("routing service unavailable")
	// ErrNoRoute means the oracle found no viable path.
	ErrNoRoute = errors.New("no route found")
)
