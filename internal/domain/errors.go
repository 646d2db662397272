package domain

import "errors"

var (
	// ErrNoMatch reports that every matching strategy came back empty.
	// Callers surface it as a user-facing "location not recognized".
	ErrNoMatch = errors.New("no match found for location")

	// ErrBackendUnavailable reports that the embedding backend could not be
	// reached or has no usable index. It is always absorbed by the resolver's
	// degrade chain and never surfaces past it.
	ErrBackendUnavailable = errors.New("embedding backend unavailable")
)
