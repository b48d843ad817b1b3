package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wayfarer-travel/backend/internal/domain"
)

// SearchInput is raw search-form input. Every field is text because that is
// how query strings and range sliders deliver it; empty means "not set".
type SearchInput struct {
	Destination string
	Category    string
	Date        string
	MinPrice    string
	MaxPrice    string
	Page        string
	Limit       string
}

// anyCategory holds the category values that mean "no category filter".
var anyCategory = map[string]bool{"": true, "any": true, "all": true}

// NormalizeFilter turns raw input into a canonical domain.Filter. It never
// fails: unparsable or out-of-range values fall back to defaults or are
// clamped. PriceMin <= PriceMax holds on the result.
func NormalizeFilter(in SearchInput) domain.Filter {
	f := domain.Filter{
		Search:   strings.TrimSpace(in.Destination),
		PriceMin: 0,
		PriceMax: domain.DefaultPriceMax,
	}

	if c := strings.TrimSpace(in.Category); !anyCategory[strings.ToLower(c)] {
		f.Category = c
	}
	if v, ok := parsePrice(in.MaxPrice); ok {
		f.PriceMax = v
	}
	if v, ok := parsePrice(in.MinPrice); ok {
		f.PriceMin = v
	}
	if f.PriceMin > f.PriceMax {
		f.PriceMin = f.PriceMax
	}

	p := domain.NewPaginationParams(parseInt(in.Page), parseInt(in.Limit))
	f.Page, f.Limit = p.Page, p.Limit

	if d, err := time.Parse(time.DateOnly, strings.TrimSpace(in.Date)); err == nil {
		f.Date = d
	}
	return f
}

// DefaultFilter is the filter of a first visit; clearing filters restores it.
func DefaultFilter() domain.Filter {
	return NormalizeFilter(SearchInput{})
}

// parsePrice reads a non-negative price. Negative values clamp to 0.
func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return max(v, 0), true
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
