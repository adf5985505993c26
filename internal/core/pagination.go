package core

import "time"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects one page of a listing. Zero values are filled in by
// Normalize, out-of-range values are clamped rather than rejected.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps the request into page >= 1 and pageSize in [1,100].
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

// Offset returns the row offset of the first item on the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Paginated is one page of a filtered collection together with the totals
// computed in the same query pass as the rows.
type Paginated[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// NewPaginated assembles a page result. totalPages is ceil(totalItems /
// pageSize); an empty collection has zero pages. Items is never nil so the
// JSON form is always an array.
func NewPaginated[T any](items []T, req PageRequest, totalItems int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if totalItems > 0 {
		totalPages = (totalItems + req.PageSize - 1) / req.PageSize
	}
	return Paginated[T]{
		Items:       items,
		CurrentPage: req.Page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
	}
}

// DateRange filters expense and income listings, bounds inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether the caller supplied no explicit range.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// CurrentMonthRange returns the calendar month containing now, which is the
// default listing window when no explicit range is given.
func CurrentMonthRange(now time.Time) DateRange {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return DateRange{From: from, To: to}
}

// Bounds substituted when the caller fixes only one end of the range.
var (
	openLowerBound = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	openUpperBound = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// OrDefault fills the unset parts of the range: a fully unset range becomes
// the current calendar month, a single unset bound leaves that end open.
func (r DateRange) OrDefault(now time.Time) DateRange {
	if r.IsZero() {
		return CurrentMonthRange(now)
	}
	if r.From.IsZero() {
		r.From = openLowerBound
	}
	if r.To.IsZero() {
		r.To = openUpperBound
	}
	return r
}
