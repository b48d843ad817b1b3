package domain

import "math"

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 10

// MaxLimit caps the page size to prevent runaway queries.
const MaxLimit = 100

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at MaxLimit by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query values.
// Values below 1 fall back to page=1, limit=DefaultLimit. Page is capped so
// that Offset cannot overflow; such a page is still past the end of any
// result set.
func NewPaginationParams(page, limit int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultLimit}
	if limit >= 1 {
		p.Limit = min(limit, MaxLimit)
	}
	if page >= 1 {
		p.Page = min(page, maxPage(p.Limit))
	}
	return p
}

func maxPage(limit int) int {
	return math.MaxInt/limit + 1
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// PageResult is one page of an ordered result set.
//
// Pages is ceil(Total/Limit) but never less than 1, so an empty result still
// reports "page 1 of 1". Items is empty (never nil) when the requested page
// lies beyond the last one.
type PageResult[T any] struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Items []T `json:"items"`
}

// NewPageResult assembles a PageResult from the items already sliced for
// page p and the total number of matches.
func NewPageResult[T any](p PaginationParams, items []T, total int) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Page:  p.Page,
		Pages: PageCount(total, p.Limit),
		Total: total,
		Items: items,
	}
}

// Paginate slices all into the window [(page-1)*limit, page*limit).
// A window past the end yields an empty page, not an error.
func Paginate[T any](all []T, p PaginationParams) PageResult[T] {
	start := p.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + min(max(p.Limit, 0), len(all)-start)
	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPageResult(p, items, len(all))
}

// PageCount returns ceil(total/limit), reported as 1 when there are no rows.
func PageCount(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
