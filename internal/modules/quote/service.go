package quote

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pipequote/internal/domain"
	"pipequote/internal/modules/pricing"
	"pipequote/internal/pkg/publictoken"
	"pipequote/internal/pkg/validator"
	"pipequote/internal/repository"
)

// createRetries bounds public-id collision retries. A collision needs two
// identical 10-char random ids, so one retry is already paranoia.
const createRetries = 3

type Service struct {
	quotes  QuoteWriter
	table   pricing.Table
	baseURL string
}

func NewService(quotes QuoteWriter, table pricing.Table, baseURL string) *Service {
	return &Service{
		quotes:  quotes,
		table:   table,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Generate validates a submitted quote, recomputes its totals server-side,
// assigns a fresh public id/token pair and persists the snapshot. Raw bodies
// and {payload:{...}} wrappers are both accepted; client-supplied totals are
// advisory only and never stored.
func (s *Service) Generate(ctx context.Context, raw json.RawMessage) (*GenerateResponse, error) {
	payloadRaw, err := unwrapPayload(raw)
	if err != nil {
		return nil, err
	}

	var p QuotePayload
	if err := json.Unmarshal(payloadRaw, &p); err != nil {
		return nil, ErrInvalidBody
	}

	if fields := validator.Validate(requiredFields{
		JobNumber:    string(p.JobNumber),
		CustomerName: string(p.CustomerName),
	}); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	totals := s.table.Compute(p.pricingInput())

	now := time.Now().UTC()
	q := &domain.Quote{
		JobNumber:       string(p.JobNumber),
		CustomerName:    string(p.CustomerName),
		CustomerEmail:   string(p.CustomerEmail),
		CustomerPhone:   string(p.CustomerPhone),
		CustomerAddress: string(p.CustomerAddress),
		JobAddress:      string(p.JobAddress),
		ScopeOfWorks:    string(p.ScopeOfWorks),
		TechnicianName:  string(p.TechnicianName),
		Totals:          totals,
		Payload:         payloadRaw,
		Status:          domain.QuoteSent,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}

	for attempt := 0; ; attempt++ {
		q.PublicID = publictoken.NewPublicID()
		q.PublicToken = publictoken.NewToken()

		err := s.quotes.Create(ctx, q)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicatePublicID) && attempt < createRetries {
			continue
		}
		return nil, err
	}

	return &GenerateResponse{
		PublicID:  q.PublicID,
		PublicURL: PublicURL(s.baseURL, q.PublicID, q.PublicToken),
	}, nil
}

// PublicURL builds the shareable viewer link for a quote.
func PublicURL(baseURL, publicID, token string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + "/q/" + publicID + "?t=" + token
}

// unwrapPayload accepts either the quote object itself or a {payload:{...}}
// envelope and returns the quote object.
func unwrapPayload(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidBody
	}

	var probe struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, ErrInvalidBody
	}
	if len(probe.Payload) > 0 && string(probe.Payload) != "null" {
		return probe.Payload, nil
	}
	return raw, nil
}
