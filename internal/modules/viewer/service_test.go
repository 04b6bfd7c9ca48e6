package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pipequote/internal/domain"
)

type MockQuoteReader struct {
	mock.Mock
}

func (m *MockQuoteReader) GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func liveQuote() *domain.Quote {
	return &domain.Quote{
		PublicID:     "k3m9p2z7qv",
		PublicToken:  "tttttttttttttttttttttttt",
		CustomerName: "Margaret Wilson",
		JobAddress:   "14 Acacia St",
		Status:       domain.QuoteSent,
		Totals:       domain.Totals{GrandTotal: 8649.99},
		Payload:      []byte(`{"job_number":"4821"}`),
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestGetSuccess(t *testing.T) {
	r := new(MockQuoteReader)
	q := liveQuote()
	r.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	view, err := NewService(r).Get(context.Background(), q.PublicID, q.PublicToken)
	require.NoError(t, err)

	assert.Equal(t, q.PublicID, view.Meta.PublicID)
	assert.Equal(t, q.CustomerName, view.Meta.CustomerName)
	assert.Equal(t, 8649.99, view.Totals.GrandTotal)
	assert.JSONEq(t, `{"job_number":"4821"}`, string(view.Payload))
}

func TestGetUnknownID(t *testing.T) {
	r := new(MockQuoteReader)
	r.On("GetByPublicID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := NewService(r).Get(context.Background(), "nope", "whatever")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetWrongTokenLooksLikeMissingRecord(t *testing.T) {
	r := new(MockQuoteReader)
	q := liveQuote()
	r.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	_, err := NewService(r).Get(context.Background(), q.PublicID, "wrong-token")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewService(r).Get(context.Background(), q.PublicID, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetArchivedIsExpired(t *testing.T) {
	r := new(MockQuoteReader)
	q := liveQuote()
	q.Archived = true
	now := time.Now()
	q.ArchivedAt = &now
	r.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	// even a correct token cannot open an archived quote
	_, err := NewService(r).Get(context.Background(), q.PublicID, q.PublicToken)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestGetDeletedIsGone(t *testing.T) {
	r := new(MockQuoteReader)
	q := liveQuote()
	now := time.Now()
	q.DeletedAt = &now
	q.Archived = true // deleted wins over archived
	r.On("GetByPublicID", mock.Anything, q.PublicID).Return(q, nil)

	_, err := NewService(r).Get(context.Background(), q.PublicID, q.PublicToken)
	assert.ErrorIs(t, err, ErrDeleted)
}
