package quote

import (
	"errors"
	"fmt"
)

var ErrInvalidBody = errors.New("invalid request body")

// ValidationError names the fields that failed so the handler can surface
// them in the error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}
