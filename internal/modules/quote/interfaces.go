package quote

import (
	"context"

	"pipequote/internal/domain"
)

// QuoteWriter is the slice of the repository the generation flow needs.
type QuoteWriter interface {
	Create(ctx context.Context, q *domain.Quote) error
}
