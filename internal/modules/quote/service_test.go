package quote

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pipequote/internal/domain"
	"pipequote/internal/modules/pricing"
	"pipequote/internal/repository"
)

type MockQuoteWriter struct {
	mock.Mock
}

func (m *MockQuoteWriter) Create(ctx context.Context, q *domain.Quote) error {
	args := m.Called(ctx, q)
	if args.Error(0) == nil && q != nil {
		q.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func newService(w QuoteWriter) *Service {
	return NewService(w, pricing.DefaultTable(), "https://quotes.example.com")
}

func TestGenerateHappyPath(t *testing.T) {
	w := new(MockQuoteWriter)
	w.On("Create", mock.Anything, mock.AnythingOfType("*domain.Quote")).Return(nil)

	raw := []byte(`{
		"job_number": "4821",
		"customer_name": "Margaret Wilson",
		"customer_email": "margaret@example.com",
		"job_address": "14 Acacia St, Eltham VIC 3095",
		"lines": [{"size": "100mm", "meters": 12, "junctions": 1}]
	}`)

	res, err := newService(w).Generate(context.Background(), raw)
	require.NoError(t, err)

	assert.Len(t, res.PublicID, 10)
	assert.Contains(t, res.PublicURL, "https://quotes.example.com/q/"+res.PublicID+"?t=")

	saved := w.Calls[0].Arguments.Get(1).(*domain.Quote)
	assert.Equal(t, "4821", saved.JobNumber)
	assert.Equal(t, "Margaret Wilson", saved.CustomerName)
	assert.Equal(t, domain.QuoteSent, saved.Status)
	assert.Len(t, saved.PublicToken, 24)
	assert.NotEqual(t, saved.PublicID, saved.PublicToken)

	// 12m of 100mm with one junction, no digging or extras
	assert.Equal(t, 5590.90, saved.Totals.PipeWorkTotal)
	assert.Equal(t, 7863.63, saved.Totals.Subtotal)
	assert.Equal(t, 786.36, saved.Totals.GST)
	assert.Equal(t, 8649.99, saved.Totals.GrandTotal)
}

func TestGenerateAcceptsWrappedPayload(t *testing.T) {
	w := new(MockQuoteWriter)
	w.On("Create", mock.Anything, mock.Anything).Return(nil)

	raw := []byte(`{"payload": {"job_number": 4821, "customer_name": "Tom Nguyen"}}`)

	res, err := newService(w).Generate(context.Background(), raw)
	require.NoError(t, err)
	require.NotEmpty(t, res.PublicID)

	saved := w.Calls[0].Arguments.Get(1).(*domain.Quote)
	// numeric job_number is coerced to text; the stored payload is the inner object
	assert.Equal(t, "4821", saved.JobNumber)
	var stored map[string]any
	require.NoError(t, json.Unmarshal(saved.Payload, &stored))
	assert.NotContains(t, stored, "payload")
}

func TestGenerateIgnoresClientTotals(t *testing.T) {
	w := new(MockQuoteWriter)
	w.On("Create", mock.Anything, mock.Anything).Return(nil)

	// client claims a $1 grand total; server recomputes from the line items
	raw := []byte(`{
		"job_number": "9",
		"customer_name": "X",
		"grand_total": 1,
		"subtotal": "$0.50",
		"lines": [{"size": "100mm", "meters": 12, "junctions": 1}]
	}`)

	_, err := newService(w).Generate(context.Background(), raw)
	require.NoError(t, err)

	saved := w.Calls[0].Arguments.Get(1).(*domain.Quote)
	assert.Equal(t, 8649.99, saved.Totals.GrandTotal)
}

func TestGenerateParsesMoneyStrings(t *testing.T) {
	w := new(MockQuoteWriter)
	w.On("Create", mock.Anything, mock.Anything).Return(nil)

	raw := []byte(`{
		"job_number": "77",
		"customer_name": "Elena",
		"extras": [{"note": "permit", "amount": "$1,200.50"}, {"note": "noise", "amount": "n/a"}]
	}`)

	_, err := newService(w).Generate(context.Background(), raw)
	require.NoError(t, err)

	saved := w.Calls[0].Arguments.Get(1).(*domain.Quote)
	// unparsable amount contributes 0, not an error
	assert.Equal(t, 1200.50, saved.Totals.ExtrasTotal)
}

func TestGenerateMissingRequiredFields(t *testing.T) {
	w := new(MockQuoteWriter)

	cases := []string{
		`{"customer_name": "No Job"}`,
		`{"job_number": "123"}`,
		`{"job_number": "  ", "customer_name": "Trimmed Away"}`,
	}
	for _, raw := range cases {
		_, err := newService(w).Generate(context.Background(), []byte(raw))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "body %s", raw)
		assert.NotEmpty(t, verr.Fields)
	}
	w.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateRetriesOnDuplicatePublicID(t *testing.T) {
	w := new(MockQuoteWriter)
	w.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicatePublicID).Once()
	w.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	raw := []byte(`{"job_number": "1", "customer_name": "Retry"}`)
	res, err := newService(w).Generate(context.Background(), raw)
	require.NoError(t, err)
	assert.NotEmpty(t, res.PublicID)
	w.AssertNumberOfCalls(t, "Create", 2)
}

func TestGenerateInvalidBody(t *testing.T) {
	w := new(MockQuoteWriter)
	svc := newService(w)

	_, err := svc.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidBody)

	_, err = svc.Generate(context.Background(), []byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrInvalidBody)
}
