package admin

import (
	"context"

	"pipequote/internal/domain"
	"pipequote/internal/repository"
)

// QuoteStore is the repository surface the admin module drives.
type QuoteStore interface {
	GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error)
	Patch(ctx context.Context, publicID string, fields map[string]any) (*domain.Quote, error)
	List(ctx context.Context, f repository.ListFilter) ([]domain.Quote, int64, error)
}
