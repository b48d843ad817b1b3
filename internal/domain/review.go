package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review is a rated comment left on a destination by a signed-in user.
// Reviews are immutable once created.
type Review struct {
	ID            uuid.UUID `json:"id"`
	DestinationID uuid.UUID `json:"destination_id"`
	UserID        uuid.UUID `json:"user_id"`
	Author        string    `json:"author"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// Date returns the submission day in "2006-01-02" form.
func (r Review) Date() string {
	return r.CreatedAt.UTC().Format(time.DateOnly)
}

const (
	starFilled = "★"
	starEmpty  = "☆"
)

// RenderStars returns exactly five symbols: round(rating) filled stars
// followed by empty ones. rating is clamped to [0, 5] before rounding.
func RenderStars(rating float64) []string {
	filled := int(math.Round(clampRating(rating)))
	stars := make([]string, 5)
	for i := range stars {
		if i < filled {
			stars[i] = starFilled
		} else {
			stars[i] = starEmpty
		}
	}
	return stars
}

// StarString joins RenderStars into a single string, e.g. "★★★★☆".
func StarString(rating float64) string {
	return strings.Join(RenderStars(rating), "")
}

// DisplayRating rounds rating to one decimal place for presentation.
func DisplayRating(rating float64) float64 {
	return math.Round(clampRating(rating)*10) / 10
}

func clampRating(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(5, r))
}
