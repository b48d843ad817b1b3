// Package domain contains the core data types for the Wayfarer API.
// It is imported by every other internal package (repo, service, handler)
// and holds the pure rules that do not need storage: the destination
// predicate, paging, rating aggregation, the booking state machine and the
// itinerary draft reducer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a geographic coordinate pair.
type Location struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Destination is a bookable travel package in the catalog.
//
// Rating always holds the true arithmetic mean of every review rating. It is
// rounded only when rendered (see DisplayRating) so repeated aggregation
// never drifts.
type Destination struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Duration     string    `json:"duration"`
	Location     Location  `json:"location"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	Highlights   []string  `json:"highlights"`
	Includes     []string  `json:"includes"`
	CreatedAt    time.Time `json:"created_at"`
}

// ApplyReview folds a new review rating into the running mean and bumps the
// review count. The stored rating stays unrounded.
func (d *Destination) ApplyReview(rating int) {
	sum := d.Rating*float64(d.TotalReviews) + float64(rating)
	d.TotalReviews++
	d.Rating = sum / float64(d.TotalReviews)
}
