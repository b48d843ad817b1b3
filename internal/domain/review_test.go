package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfarer-travel/backend/internal/domain"
)

func TestDestination_ApplyReview_ExactMean(t *testing.T) {
	d := domain.Destination{Rating: 4.8, TotalReviews: 156}

	d.ApplyReview(4)

	assert.Equal(t, 157, d.TotalReviews)
	assert.InDelta(t, (4.8*156+4)/157, d.Rating, 1e-12)
}

func TestDestination_ApplyReview_FirstReview(t *testing.T) {
	d := domain.Destination{}

	d.ApplyReview(3)

	assert.Equal(t, 1, d.TotalReviews)
	assert.Equal(t, 3.0, d.Rating)
}

// Repeated aggregation tracks the true mean instead of a rounded one.
func TestDestination_ApplyReview_NoDrift(t *testing.T) {
	d := domain.Destination{}
	ratings := []int{5, 4, 4, 3, 5, 1, 2, 5, 4, 4, 5, 3}
	sum := 0
	for _, r := range ratings {
		d.ApplyReview(r)
		sum += r
	}

	assert.Equal(t, len(ratings), d.TotalReviews)
	assert.InDelta(t, float64(sum)/float64(len(ratings)), d.Rating, 1e-9)
}

func TestRenderStars(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{0, "☆☆☆☆☆"},
		{4.8, "★★★★★"},
		{4.4, "★★★★☆"},
		{2.5, "★★★☆☆"},
		{-3, "☆☆☆☆☆"},
		{9, "★★★★★"},
	}
	for _, tc := range tests {
		got := domain.RenderStars(tc.rating)
		assert.Len(t, got, 5)
		assert.Equal(t, tc.want, domain.StarString(tc.rating), "rating %v", tc.rating)
	}
}

func TestDisplayRating(t *testing.T) {
	assert.Equal(t, 4.8, domain.DisplayRating((4.8*156+4)/157))
	assert.Equal(t, 5.0, domain.DisplayRating(7))
}
