package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"pipequote/internal/domain"
)

var ErrDuplicatePublicID = errors.New("public id already exists")

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

type quoteModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	PublicID    string `gorm:"column:public_id;uniqueIndex;size:16"`
	PublicToken string `gorm:"column:public_token;size:32"`

	JobNumber       string `gorm:"column:job_number"`
	CustomerName    string `gorm:"column:customer_name"`
	CustomerEmail   string `gorm:"column:customer_email"`
	CustomerPhone   string `gorm:"column:customer_phone"`
	CustomerAddress string `gorm:"column:customer_address"`
	JobAddress      string `gorm:"column:job_address"`
	ScopeOfWorks    string `gorm:"column:scope_of_works;type:text"`
	TechnicianName  string `gorm:"column:technician_name"`

	SetupCost     float64 `gorm:"column:setup_cost"`
	PipeWorkTotal float64 `gorm:"column:pipe_work_total"`
	DiggingTotal  float64 `gorm:"column:digging_total"`
	ExtrasTotal   float64 `gorm:"column:extras_total"`
	Subtotal      float64 `gorm:"column:subtotal"`
	GST           float64 `gorm:"column:gst"`
	GrandTotal    float64 `gorm:"column:grand_total"`

	Totals  []byte `gorm:"column:totals;type:text"`
	Payload []byte `gorm:"column:payload;type:text"`

	Status          string     `gorm:"column:status;index"`
	StatusUpdatedAt time.Time  `gorm:"column:status_updated_at"`
	Archived        bool       `gorm:"column:archived;index"`
	ArchivedAt      *time.Time `gorm:"column:archived_at"`
	DeletedAt       *time.Time `gorm:"column:deleted_at;index"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (quoteModel) TableName() string { return "quotes" }

// Migrate creates the quotes table. Used by cmd/seed and the handler tests;
// production schemas are managed out of band.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&quoteModel{})
}

func toDomainQuote(m quoteModel) *domain.Quote {
	q := &domain.Quote{
		ID:              m.ID,
		PublicID:        m.PublicID,
		PublicToken:     m.PublicToken,
		JobNumber:       m.JobNumber,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		CustomerPhone:   m.CustomerPhone,
		CustomerAddress: m.CustomerAddress,
		JobAddress:      m.JobAddress,
		ScopeOfWorks:    m.ScopeOfWorks,
		TechnicianName:  m.TechnicianName,
		Payload:         m.Payload,
		Status:          domain.QuoteStatus(m.Status),
		StatusUpdatedAt: m.StatusUpdatedAt,
		Archived:        m.Archived,
		ArchivedAt:      m.ArchivedAt,
		DeletedAt:       m.DeletedAt,
		CreatedAt:       m.CreatedAt,
	}

	// The flat columns are authoritative; the totals blob is a convenience
	// copy for consumers that want a single JSON value.
	q.Totals = domain.Totals{
		SetupCost:     m.SetupCost,
		PipeWorkTotal: m.PipeWorkTotal,
		DiggingTotal:  m.DiggingTotal,
		ExtrasTotal:   m.ExtrasTotal,
		Subtotal:      m.Subtotal,
		GST:           m.GST,
		GrandTotal:    m.GrandTotal,
	}
	return q
}

func toQuoteModel(q *domain.Quote) quoteModel {
	totalsJSON, _ := json.Marshal(q.Totals)

	return quoteModel{
		ID:              q.ID,
		PublicID:        q.PublicID,
		PublicToken:     q.PublicToken,
		JobNumber:       q.JobNumber,
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		CustomerPhone:   q.CustomerPhone,
		CustomerAddress: q.CustomerAddress,
		JobAddress:      q.JobAddress,
		ScopeOfWorks:    q.ScopeOfWorks,
		TechnicianName:  q.TechnicianName,
		SetupCost:       q.Totals.SetupCost,
		PipeWorkTotal:   q.Totals.PipeWorkTotal,
		DiggingTotal:    q.Totals.DiggingTotal,
		ExtrasTotal:     q.Totals.ExtrasTotal,
		Subtotal:        q.Totals.Subtotal,
		GST:             q.Totals.GST,
		GrandTotal:      q.Totals.GrandTotal,
		Totals:          totalsJSON,
		Payload:         q.Payload,
		Status:          string(q.Status),
		StatusUpdatedAt: q.StatusUpdatedAt,
		Archived:        q.Archived,
		ArchivedAt:      q.ArchivedAt,
		DeletedAt:       q.DeletedAt,
		CreatedAt:       q.CreatedAt,
	}
}

func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	m := toQuoteModel(q)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isDuplicate(tx.Error) {
			return ErrDuplicatePublicID
		}
		return tx.Error
	}
	*q = *toDomainQuote(m)
	return nil
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// the pure-Go sqlite driver surfaces constraint violations untranslated
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *QuoteRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Quote, error) {
	var m quoteModel
	tx := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainQuote(m), nil
}

// Patch applies a partial column update keyed by public_id. Last write wins;
// admin actions are rare and operator-driven, so no optimistic locking.
func (r *QuoteRepository) Patch(ctx context.Context, publicID string, fields map[string]any) (*domain.Quote, error) {
	tx := r.db.WithContext(ctx).Model(&quoteModel{}).Where("public_id = ?", publicID).Updates(fields)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByPublicID(ctx, publicID)
}

// Tab selects a lifecycle slice of the quote list.
type Tab string

const (
	TabActive   Tab = "active"
	TabArchived Tab = "archived"
	TabDeleted  Tab = "deleted"
)

type ListFilter struct {
	Tab      Tab
	Status   string
	Search   string
	SortBy   string // validated by the caller against the sort whitelist
	SortDesc bool
	Limit    int
	Offset   int
}

func (r *QuoteRepository) List(ctx context.Context, f ListFilter) ([]domain.Quote, int64, error) {
	q := r.db.WithContext(ctx).Model(&quoteModel{})

	switch f.Tab {
	case TabDeleted:
		q = q.Where("deleted_at IS NOT NULL")
	case TabArchived:
		q = q.Where("deleted_at IS NULL AND archived = ?", true)
	default:
		q = q.Where("deleted_at IS NULL AND archived = ?", false)
	}

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	if f.Search != "" {
		pat := "%" + escapeLike(f.Search) + "%"
		q = q.Where(
			`LOWER(customer_name) LIKE LOWER(?) ESCAPE '\'
			 OR LOWER(job_address) LIKE LOWER(?) ESCAPE '\'
			 OR LOWER(job_number) LIKE LOWER(?) ESCAPE '\'`,
			pat, pat, pat,
		)
	}

	var count int64
	if tx := q.Count(&count); tx.Error != nil {
		return nil, 0, tx.Error
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	var rows []quoteModel
	tx := q.Order(sortBy + " " + dir).Limit(f.Limit).Offset(f.Offset).Find(&rows)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.Quote, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainQuote(m))
	}
	return out, count, nil
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
