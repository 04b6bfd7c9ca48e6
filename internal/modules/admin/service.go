package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pipequote/internal/domain"
	"pipequote/internal/pkg/publictoken"
)

// Actions enumerates every admin action the endpoint accepts.
var Actions = []string{"archive", "unarchive", "delete", "set_status", "regenerate_link"}

type Service struct {
	quotes  QuoteStore
	baseURL string
}

func NewService(quotes QuoteStore, baseURL string) *Service {
	return &Service{quotes: quotes, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	filter, page, pageSize := q.normalize()

	rows, count, err := s.quotes.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, toListItem(r))
	}

	return &ListResult{Data: items, Count: count, Page: page, PageSize: pageSize}, nil
}

// Apply executes one named lifecycle action against a quote. Each action is
// a deterministic column patch; concurrent actions are last-write-wins.
func (s *Service) Apply(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	now := time.Now().UTC()
	patch := map[string]any{"status_updated_at": now}

	switch req.Action {
	case "archive":
		// rotating the token kills any link already in a customer inbox
		patch["archived"] = true
		patch["archived_at"] = now
		patch["public_token"] = publictoken.NewToken()

	case "unarchive":
		patch["archived"] = false
		patch["archived_at"] = nil

	case "delete":
		patch["deleted_at"] = now
		patch["public_token"] = publictoken.NewToken()

	case "set_status":
		if !domain.ValidStatus(domain.QuoteStatus(req.Status)) {
			return nil, ErrInvalidStatus
		}
		patch["status"] = req.Status

	case "regenerate_link":
		next := req.Status
		if next == "" {
			next = string(domain.QuotePending)
		}
		if !domain.ValidStatus(domain.QuoteStatus(next)) {
			return nil, ErrInvalidStatus
		}

		q, err := s.quotes.GetByPublicID(ctx, req.PublicID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if q.Deleted() {
			return nil, ErrQuoteDeleted
		}

		patch["public_token"] = publictoken.NewToken()
		patch["archived"] = false
		patch["archived_at"] = nil
		patch["status"] = next

	default:
		return nil, ErrInvalidAction
	}

	q, err := s.quotes.Patch(ctx, req.PublicID, patch)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &ActionResult{
		PublicID:    q.PublicID,
		PublicToken: q.PublicToken,
		Status:      string(q.Status),
		Archived:    q.Archived,
		DeletedAt:   q.DeletedAt,
		PublicURL:   s.baseURL + "/q/" + q.PublicID + "?t=" + q.PublicToken,
	}, nil
}
