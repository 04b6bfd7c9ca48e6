// Package viewer is the public read path: it decides whether a quote may be
// disclosed for a given public id and token, and in what shape.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"pipequote/internal/domain"
)

type QuoteReader interface {
	GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error)
}

type Meta struct {
	PublicID     string             `json:"public_id"`
	Status       domain.QuoteStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	CustomerName string             `json:"customer_name"`
	JobAddress   string             `json:"job_address"`
}

// View is the full disclosure for a valid link: metadata plus the totals and
// payload snapshots frozen at publish time.
type View struct {
	Meta    Meta            `json:"meta"`
	Totals  domain.Totals   `json:"totals"`
	Payload json.RawMessage `json:"payload"`
}

type Service struct {
	quotes QuoteReader
}

func NewService(quotes QuoteReader) *Service {
	return &Service{quotes: quotes}
}

// Get runs the access gate. Order matters: lifecycle checks come before the
// token comparison so an archived quote reports expired even to a stale
// link, but a wrong token on a live quote looks exactly like no quote.
func (s *Service) Get(ctx context.Context, publicID, token string) (*View, error) {
	q, err := s.quotes.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if q.Deleted() {
		return nil, ErrDeleted
	}
	if q.Archived {
		return nil, ErrExpired
	}
	if token == "" || token != q.PublicToken {
		return nil, ErrNotFound
	}

	return &View{
		Meta: Meta{
			PublicID:     q.PublicID,
			Status:       q.Status,
			CreatedAt:    q.CreatedAt,
			CustomerName: q.CustomerName,
			JobAddress:   q.JobAddress,
		},
		Totals:  q.Totals,
		Payload: json.RawMessage(q.Payload),
	}, nil
}
