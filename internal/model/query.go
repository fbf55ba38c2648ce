package model

import "time"

// ActivityFilters are the predicates the store can in principle execute
// natively. Whether they are actually pushed server-side is decided by the
// repository's query planner; combining more than one of them falls back
// to client-side filtering to avoid composite-index requirements.
type ActivityFilters struct {
	Status     *string    `json:"status,omitempty"`
	Visibility *string    `json:"visibility,omitempty"`
	Tag        *string    `json:"tag,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
}

// Count returns how many native constraints are set. A date range counts
// as one constraint: it targets a single field.
func (f ActivityFilters) Count() int {
	n := 0
	if f.Status != nil {
		n++
	}
	if f.Visibility != nil {
		n++
	}
	if f.Tag != nil {
		n++
	}
	if f.DateFrom != nil || f.DateTo != nil {
		n++
	}
	return n
}

// Sort field names accepted by activity listings.
const (
	SortByDate       = "event_date"
	SortByName       = "name"
	SortByRegistered = "registered_count"
	SortByViews      = "view_count"
	SortByCreated    = "created_on"
)

// SortSpec selects a sort field and direction.
type SortSpec struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// PageRequest is a 1-based page request. Zero values take defaults.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Pagination defaults and caps.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the request into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// ListQuery bundles everything a list endpoint accepts.
type ListQuery struct {
	Filters ActivityFilters `json:"filters"`
	Search  string          `json:"search,omitempty"`
	Sort    *SortSpec       `json:"sort,omitempty"`
	Page    PageRequest     `json:"page"`
}

// Page is one page of a filtered, sorted result set. Total counts the
// filtered set, not the raw fetch, so sum(len(page)) over all pages always
// equals Total.
type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	PageCount int `json:"page_count"`
}
