package domain

import "time"

type QuoteStatus string

const (
	QuoteDraft           QuoteStatus = "draft"
	QuoteSent            QuoteStatus = "sent"
	QuotePending         QuoteStatus = "pending"
	QuoteAwaitingPayment QuoteStatus = "awaiting_payment"
	QuoteDepositPaid     QuoteStatus = "deposit_paid"
	QuoteCompleted       QuoteStatus = "completed"
	QuoteLost            QuoteStatus = "lost"
	QuoteDeclined        QuoteStatus = "declined"
)

// AllowedStatuses is the full business status set, in display order.
var AllowedStatuses = []QuoteStatus{
	QuoteDraft,
	QuoteSent,
	QuotePending,
	QuoteAwaitingPayment,
	QuoteDepositPaid,
	QuoteCompleted,
	QuoteLost,
	QuoteDeclined,
}

func ValidStatus(s QuoteStatus) bool {
	for _, v := range AllowedStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// PipeSize is a relining pipe diameter. Only the two sizes the crews stock.
type PipeSize string

const (
	Pipe100 PipeSize = "100mm"
	Pipe150 PipeSize = "150mm"
)

// PipeLine is one relined run: meters of liner plus junction patches.
type PipeLine struct {
	Size      PipeSize `json:"size"`
	Meters    float64  `json:"meters"`
	Junctions int      `json:"junctions"`
}

// ExtraItem is a free-form priced addition (amount is ex GST).
type ExtraItem struct {
	Note   string  `json:"note"`
	Amount float64 `json:"amount"`
}

type Digging struct {
	Enabled bool    `json:"enabled"`
	Hours   float64 `json:"hours"`
}

// Totals is the monetary snapshot frozen at publish time. Viewers render
// these figures forever; they are never recomputed from current rates.
type Totals struct {
	SetupCost     float64 `json:"setup_cost"`
	PipeWorkTotal float64 `json:"pipe_work_total"`
	DiggingTotal  float64 `json:"digging_total"`
	ExtrasTotal   float64 `json:"extras_total"`
	Subtotal      float64 `json:"subtotal"`
	GST           float64 `json:"gst"`
	GrandTotal    float64 `json:"grand_total"`
}

// Quote is the persisted record. PublicID is the shareable handle,
// PublicToken the rotatable secret paired with it.
type Quote struct {
	ID          int64
	PublicID    string
	PublicToken string

	JobNumber       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	JobAddress      string
	ScopeOfWorks    string
	TechnicianName  string

	Totals Totals

	// Payload is the full structured quote as submitted (post-validation),
	// kept verbatim so the viewer can render historical quotes unchanged.
	Payload []byte

	Status          QuoteStatus
	StatusUpdatedAt time.Time
	Archived        bool
	ArchivedAt      *time.Time
	DeletedAt       *time.Time
	CreatedAt       time.Time
}

// Deleted reports whether the quote is soft-deleted. Terminal.
func (q *Quote) Deleted() bool { return q.DeletedAt != nil }
