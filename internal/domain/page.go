package domain

import "math"

const (
	// DefaultPageLimit is used when the caller does not ask for a page size.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size to keep listing queries bounded.
	MaxPageLimit = 100
	// MaxPage keeps Offset within int for every allowed limit.
	MaxPage = math.MaxInt/MaxPageLimit + 1
)

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil or non-positive values fall back to page=1, limit=DefaultPageLimit;
// limits above MaxPageLimit and pages above MaxPage are clamped.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
