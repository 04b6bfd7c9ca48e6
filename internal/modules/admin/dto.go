package admin

import (
	"time"

	"pipequote/internal/domain"
	"pipequote/internal/repository"
)

const (
	defaultPageSize = 25
	minPageSize     = 5
	maxPageSize     = 100
)

// sortWhitelist guards the ORDER BY clause; anything else falls back to
// created_at.
var sortWhitelist = map[string]bool{
	"created_at":    true,
	"grand_total":   true,
	"customer_name": true,
	"status":        true,
}

type ListQuery struct {
	Tab      string `form:"tab"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Dir      string `form:"dir"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// normalize clamps pagination and maps the query onto a repository filter.
func (q ListQuery) normalize() (repository.ListFilter, int, int) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize < minPageSize {
		pageSize = minPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	sort := q.Sort
	if !sortWhitelist[sort] {
		sort = "created_at"
	}

	tab := repository.Tab(q.Tab)
	switch tab {
	case repository.TabArchived, repository.TabDeleted:
	default:
		tab = repository.TabActive
	}

	return repository.ListFilter{
		Tab:      tab,
		Status:   q.Status,
		Search:   q.Search,
		SortBy:   sort,
		SortDesc: q.Dir != "asc",
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}, page, pageSize
}

// ListItem is the admin table row.
type ListItem struct {
	PublicID     string     `json:"public_id"`
	PublicToken  string     `json:"public_token"`
	JobNumber    string     `json:"job_number"`
	CustomerName string     `json:"customer_name"`
	JobAddress   string     `json:"job_address"`
	Status       string     `json:"status"`
	Archived     bool       `json:"archived"`
	ArchivedAt   *time.Time `json:"archived_at"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at"`
	GrandTotal   float64    `json:"grand_total"`
}

func toListItem(q domain.Quote) ListItem {
	return ListItem{
		PublicID:     q.PublicID,
		PublicToken:  q.PublicToken,
		JobNumber:    q.JobNumber,
		CustomerName: q.CustomerName,
		JobAddress:   q.JobAddress,
		Status:       string(q.Status),
		Archived:     q.Archived,
		ArchivedAt:   q.ArchivedAt,
		DeletedAt:    q.DeletedAt,
		CreatedAt:    q.CreatedAt,
		GrandTotal:   q.Totals.GrandTotal,
	}
}

type ListResult struct {
	Data     []ListItem `json:"data"`
	Count    int64      `json:"count"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

type ActionRequest struct {
	PublicID string `json:"public_id" binding:"required"`
	Action   string `json:"action" binding:"required"`
	Status   string `json:"status"`
}

// ActionResult echoes the patched lifecycle fields plus a reconstructed
// public link so the operator can copy it straight from the admin UI.
type ActionResult struct {
	PublicID    string     `json:"public_id"`
	PublicToken string     `json:"public_token"`
	Status      string     `json:"status"`
	Archived    bool       `json:"archived"`
	DeletedAt   *time.Time `json:"deleted_at"`
	PublicURL   string     `json:"publicUrl"`
}
