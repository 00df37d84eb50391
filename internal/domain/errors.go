package domain

import "errors"

// Boundary error classes. Per-task fetch failures are absorbed inside the
// pipeline; only these surface to callers.
var (
	// ErrConfiguration marks requests that cannot be served at all, e.g. an
	// empty query list and an empty channel list supplied together. Maps to
	// a 4xx at the transport.
	ErrConfiguration = errors.New("configuration error")

	// ErrUpstreamUnavailable marks a total upstream outage across a whole
	// fan-out, as opposed to the per-task failures the pipeline swallows.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse marks an upstream payload that failed schema
	// validation at the boundary.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrNotFound is returned by repositories and platform lookups when the
	// requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
