package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DefaultPriceMax is the price ceiling applied when the caller sets none.
const DefaultPriceMax = 10000

// Filter is the canonical destination query produced by the filter
// normalizer. PriceMin <= PriceMax always holds for a normalized filter.
//
// Date is carried from the search form so it can be handed on to a booking;
// it takes no part in matching.
type Filter struct {
	Search   string    `json:"search"`
	Category string    `json:"category"`
	PriceMin float64   `json:"price_min"`
	PriceMax float64   `json:"price_max"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Date     time.Time `json:"date,omitzero"`
}

// Pagination returns the paging window described by f.
func (f Filter) Pagination() PaginationParams {
	return NewPaginationParams(f.Page, f.Limit)
}

// Matches reports whether d satisfies every clause of f: a case-insensitive
// substring match of Search against the name, an empty or equal category,
// and a price inside [PriceMin, PriceMax].
func (f Filter) Matches(d Destination) bool {
	if f.Search != "" && !strings.Contains(Fold(d.Name), Fold(f.Search)) {
		return false
	}
	if f.Category != "" && Fold(f.Category) != Fold(d.Category) {
		return false
	}
	return d.Price >= f.PriceMin && d.Price <= f.PriceMax
}

// QueryDestinations applies f to catalog and returns the requested page.
// Matches keep catalog order, so identical calls over unchanged data return
// identical pages and consecutive pages neither skip nor repeat items.
func QueryDestinations(catalog []Destination, f Filter) PageResult[Destination] {
	var matched []Destination
	for _, d := range catalog {
		if f.Matches(d) {
			matched = append(matched, d)
		}
	}
	return Paginate(matched, f.Pagination())
}

// Fold returns the Unicode case-folded form of s for caseless comparison.
// A Caser is stateful, so a fresh one is built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}
