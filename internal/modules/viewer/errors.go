package viewer

import "errors"

var (
	// ErrNotFound covers both a missing record and a token mismatch. The two
	// must stay indistinguishable so the public endpoint cannot be used to
	// probe for quote existence.
	ErrNotFound = errors.New("quote not found")

	ErrExpired = errors.New("quote link expired")
	ErrDeleted = errors.New("quote deleted")
)
