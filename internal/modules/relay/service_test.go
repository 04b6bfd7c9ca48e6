package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pipequote/internal/domain"
	"pipequote/internal/modules/pricing"
)

type MockQuoteReader struct {
	mock.Mock
}

func (m *MockQuoteReader) GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error) {
	args := m.Called(ctx, publicID)
	if q := args.Get(0); q != nil {
		return q.(*domain.Quote), args.Error(1)
	}
	return nil, args.Error(1)
}

func sentQuote() *domain.Quote {
	return &domain.Quote{
		PublicID:      "abcdefghjk",
		PublicToken:   "tok-valid-24-characters-x",
		JobNumber:     "4821",
		CustomerName:  "Margaret Wilson",
		CustomerEmail: "m.wilson@example.com",
		JobAddress:    "14 Acacia St, Eltham",
		ScopeOfWorks:  "Reline 12m of 100mm sewer",
		Totals: domain.Totals{
			SetupCost:     2272.73,
			PipeWorkTotal: 5590.90,
			DiggingTotal:  636.36,
			Subtotal:      8499.99,
			GST:           850.00,
			GrandTotal:    9349.99,
		},
		Payload: []byte(`{
			"job_number": "4821",
			"customer_name": "Margaret Wilson",
			"job_address": "14 Acacia St, Eltham",
			"scope_of_works": "Reline 12m of 100mm sewer",
			"lines": [{"size": "100mm", "meters": 12, "junctions": 1}],
			"digging": {"enabled": true, "hours": 2},
			"extras": [{"note": "Council permit", "amount": 150}]
		}`),
		Status:    domain.QuoteSent,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSend(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	q := sentQuote()
	reader := new(MockQuoteReader)
	reader.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	svc := NewService(reader, pricing.DefaultTable(), srv.URL)
	require.NoError(t, svc.Send(context.Background(), q.PublicID))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))

	assert.Equal(t, "Quote 4821 - Margaret Wilson", payload["pageTitle"])

	customer := payload["customer"].(map[string]any)
	assert.Equal(t, "Margaret Wilson", customer["name"])
	assert.Equal(t, "m.wilson@example.com", customer["email"])

	pricingBlock := payload["pricing"].(map[string]any)
	assert.Equal(t, "AUD", pricingBlock["currency"])
	assert.InDelta(t, 9349.99, pricingBlock["total"].(float64), 0.001)

	items := payload["lineItems"].([]any)
	// setup + one pipe line + digging + one extra
	require.Len(t, items, 4)

	first := items[0].(map[string]any)
	assert.Equal(t, "setup", first["id"])
	assert.InDelta(t, 2272.73, first["total"].(float64), 0.001)

	pipe := items[1].(map[string]any)
	assert.Contains(t, pipe["name"], "100mm")
	assert.Contains(t, pipe["name"], "12m")

	extra := items[3].(map[string]any)
	assert.Equal(t, "Council permit", extra["name"])
	assert.InDelta(t, 150.0, extra["total"].(float64), 0.001)
}

func TestSendUnknownQuote(t *testing.T) {
	reader := new(MockQuoteReader)
	reader.On("GetByPublicID", mock.Anything, "nosuchid00").Return(nil, gorm.ErrRecordNotFound)

	svc := NewService(reader, pricing.DefaultTable(), "http://unused.invalid")
	assert.ErrorIs(t, svc.Send(context.Background(), "nosuchid00"), ErrQuoteNotFound)
}

func TestSendDeletedQuote(t *testing.T) {
	q := sentQuote()
	now := time.Now().UTC()
	q.DeletedAt = &now

	reader := new(MockQuoteReader)
	reader.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	svc := NewService(reader, pricing.DefaultTable(), "http://unused.invalid")
	assert.ErrorIs(t, svc.Send(context.Background(), q.PublicID), ErrQuoteNotFound)
}

func TestSendNotConfigured(t *testing.T) {
	svc := NewService(new(MockQuoteReader), pricing.DefaultTable(), "")
	assert.ErrorIs(t, svc.Send(context.Background(), "abcdefghjk"), ErrNotConfigured)
}

func TestSendWebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "zap misfired", http.StatusBadGateway)
	}))
	defer srv.Close()

	q := sentQuote()
	reader := new(MockQuoteReader)
	reader.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	svc := NewService(reader, pricing.DefaultTable(), srv.URL)
	err := svc.Send(context.Background(), q.PublicID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
