package domain

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Stop represents a single destination entry within an itinerary.
// Dates are "2006-01-02" strings as produced by date inputs. DepartureDate is
// empty when the traveller has not decided when to leave.
//
// Activities may contain blank entries while the stop is being edited; use
// VisibleActivities for display.
type Stop struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ArrivalDate   string    `json:"arrival_date"`
	DepartureDate string    `json:"departure_date,omitempty"`
	Activities    []string  `json:"activities"`
	Notes         string    `json:"notes,omitempty"`
}

// StopFields holds the scalar fields of the in-progress stop form.
type StopFields struct {
	Name          string `json:"name"`
	ArrivalDate   string `json:"arrival_date"`
	DepartureDate string `json:"departure_date"`
	Notes         string `json:"notes"`
}

// NewPendingStop returns the empty stop form: no fields set and a single
// blank activity slot.
func NewPendingStop() Stop {
	return Stop{Activities: []string{""}}
}

// VisibleActivities returns the non-blank activities in order.
func (s Stop) VisibleActivities() []string {
	out := []string{}
	for _, a := range s.Activities {
		if strings.TrimSpace(a) != "" {
			out = append(out, a)
		}
	}
	return out
}

// clone returns a copy of s that shares no backing array with it.
func (s Stop) clone() Stop {
	s.Activities = slices.Clone(s.Activities)
	return s
}
