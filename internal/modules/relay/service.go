// Package relay forwards a published quote to the quote-presentation SaaS
// through the configured Zapier webhook.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"pipequote/internal/domain"
	"pipequote/internal/modules/pricing"
	"pipequote/internal/modules/quote"
)

var (
	ErrNotConfigured = errors.New("webhook url is not configured")
	ErrQuoteNotFound = errors.New("quote not found")
)

const quoteValidity = 30 * 24 * time.Hour

type QuoteReader interface {
	GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error)
}

type Service struct {
	quotes     QuoteReader
	table      pricing.Table
	webhookURL string
	http       *http.Client
}

func NewService(quotes QuoteReader, table pricing.Table, webhookURL string) *Service {
	return &Service{
		quotes:     quotes,
		table:      table,
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

type lineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	UnitLabel string  `json:"unitLabel"`
	Total     float64 `json:"total"`
	Optional  bool    `json:"optional"`
	Selected  bool    `json:"selected"`
}

// Send formats the stored quote snapshot and POSTs it to the webhook.
func (s *Service) Send(ctx context.Context, publicID string) error {
	if s.webhookURL == "" {
		return ErrNotConfigured
	}

	q, err := s.quotes.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuoteNotFound
		}
		return err
	}
	if q.Deleted() {
		return ErrQuoteNotFound
	}

	body, err := json.Marshal(s.format(q))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func (s *Service) format(q *domain.Quote) map[string]any {
	now := time.Now().UTC()

	return map[string]any{
		"pageTitle":  fmt.Sprintf("Quote %s - %s", q.JobNumber, q.CustomerName),
		"jobNumber":  q.JobNumber,
		"quoteDate":  q.CreatedAt.Format(time.RFC3339),
		"validUntil": now.Add(quoteValidity).Format(time.RFC3339),
		"customer": map[string]any{
			"name":    q.CustomerName,
			"email":   q.CustomerEmail,
			"phone":   q.CustomerPhone,
			"address": q.CustomerAddress,
		},
		"job": map[string]any{
			"address": q.JobAddress,
			"notes":   q.ScopeOfWorks,
		},
		"lineItems": s.lineItems(q),
		"pricing": map[string]any{
			"subtotal": q.Totals.Subtotal,
			"gst":      q.Totals.GST,
			"total":    q.Totals.GrandTotal,
			"currency": "AUD",
		},
		"metadata": map[string]any{
			"source":    "pipequote",
			"jobNumber": q.JobNumber,
			"timestamp": now.Format(time.RFC3339),
		},
	}
}

// lineItems rebuilds a presentable item list from the payload snapshot. The
// snapshot is the loosely-typed submission, so it goes back through the
// intake DTO for normalization.
func (s *Service) lineItems(q *domain.Quote) []lineItem {
	items := []lineItem{{
		ID:        "setup",
		Name:      "Setup & Service",
		Quantity:  1,
		UnitPrice: q.Totals.SetupCost,
		UnitLabel: "fixed",
		Total:     q.Totals.SetupCost,
		Selected:  true,
	}}

	var p quote.QuotePayload
	if err := json.Unmarshal(q.Payload, &p); err != nil {
		return items
	}

	for i, l := range p.Lines {
		size := domain.PipeSize(l.Size)
		rate := s.table.Rates[size]
		total := s.table.LineTotal(domain.PipeLine{
			Size:      size,
			Meters:    float64(l.Meters),
			Junctions: int(l.Junctions),
		})
		items = append(items, lineItem{
			ID:        fmt.Sprintf("pipe_%d", i+1),
			Name:      fmt.Sprintf("Pipe relining %s (%gm, %d junctions)", size, float64(l.Meters), int(l.Junctions)),
			Quantity:  float64(l.Meters),
			UnitPrice: rate.PerMeter,
			UnitLabel: "meter",
			Total:     total,
			Selected:  true,
		})
	}

	if bool(p.Digging.Enabled) && q.Totals.DiggingTotal > 0 {
		items = append(items, lineItem{
			ID:        "digging",
			Name:      fmt.Sprintf("Excavation (%gh)", float64(p.Digging.Hours)),
			Quantity:  float64(p.Digging.Hours),
			UnitPrice: s.table.DiggingPerHour,
			UnitLabel: "hour",
			Total:     q.Totals.DiggingTotal,
			Selected:  true,
		})
	}

	for i, e := range p.Extras {
		items = append(items, lineItem{
			ID:        fmt.Sprintf("extra_%d", i+1),
			Name:      string(e.Note),
			Quantity:  1,
			UnitPrice: float64(e.Amount),
			UnitLabel: "unit",
			Total:     float64(e.Amount),
			Selected:  true,
		})
	}

	return items
}
