package admin

import "errors"

var (
	ErrNotFound      = errors.New("quote not found")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidStatus = errors.New("invalid status")

	// ErrQuoteDeleted rejects link regeneration on a soft-deleted quote.
	// Deleted is terminal; there is no public-facing resurrection path.
	ErrQuoteDeleted = errors.New("quote is deleted")
)
