package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Itinerary is an ordered plan of stops. A saved itinerary is stamped with
// an ID and CreatedAt and is never rewritten afterwards.
type Itinerary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	Stops     []Stop    `json:"stops"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Draft is the explicit, serializable state of the itinerary builder: the
// itinerary being assembled plus the stop form currently being filled in.
//
// Every method returns a new Draft and leaves the receiver untouched, so a
// Draft can be kept, compared and replayed in tests.
type Draft struct {
	Itinerary Itinerary `json:"itinerary"`
	Pending   Stop      `json:"pending"`
}

// NewDraft returns the empty builder state.
func NewDraft() Draft {
	return Draft{
		Itinerary: Itinerary{Stops: []Stop{}},
		Pending:   NewPendingStop(),
	}
}

func (d Draft) clone() Draft {
	stops := make([]Stop, len(d.Itinerary.Stops))
	for i, s := range d.Itinerary.Stops {
		stops[i] = s.clone()
	}
	d.Itinerary.Stops = stops
	d.Pending = d.Pending.clone()
	return d
}

// SetHeader replaces the itinerary title and date range.
func (d Draft) SetHeader(title, startDate, endDate string) Draft {
	next := d.clone()
	next.Itinerary.Title = title
	next.Itinerary.StartDate = startDate
	next.Itinerary.EndDate = endDate
	return next
}

// UpdatePending replaces the scalar fields of the pending stop form,
// keeping its activity list.
func (d Draft) UpdatePending(f StopFields) Draft {
	next := d.clone()
	next.Pending.Name = f.Name
	next.Pending.ArrivalDate = f.ArrivalDate
	next.Pending.DepartureDate = f.DepartureDate
	next.Pending.Notes = f.Notes
	return next
}

// AddActivity appends a blank activity slot to the pending stop.
func (d Draft) AddActivity() Draft {
	next := d.clone()
	next.Pending.Activities = append(next.Pending.Activities, "")
	return next
}

// UpdateActivity sets the pending stop's activity at index.
func (d Draft) UpdateActivity(index int, value string) (Draft, error) {
	if index < 0 || index >= len(d.Pending.Activities) {
		return d, fmt.Errorf("%w: activity %d does not exist", ErrValidation, index)
	}
	next := d.clone()
	next.Pending.Activities[index] = value
	return next, nil
}

// RemoveActivity drops the pending stop's activity at index. The last
// remaining slot is kept, and an out-of-range index changes nothing.
func (d Draft) RemoveActivity(index int) Draft {
	if len(d.Pending.Activities) <= 1 || index < 0 || index >= len(d.Pending.Activities) {
		return d
	}
	next := d.clone()
	next.Pending.Activities = slices.Delete(next.Pending.Activities, index, index+1)
	return next
}

// AddStop validates the pending stop, appends it under id, and resets the
// stop form. On failure the draft is returned unchanged together with an
// ErrValidation naming the missing fields.
func (d Draft) AddStop(id uuid.UUID) (Draft, error) {
	var missing []string
	if strings.TrimSpace(d.Pending.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Pending.ArrivalDate) == "" {
		missing = append(missing, "arrival_date")
	}
	if len(missing) > 0 {
		return d, requiredError(missing)
	}

	next := d.clone()
	stop := next.Pending
	stop.ID = id
	next.Itinerary.Stops = append(next.Itinerary.Stops, stop)
	next.Pending = NewPendingStop()
	return next, nil
}

// RemoveStop drops the stop with the given id. Unknown ids are a no-op.
func (d Draft) RemoveStop(id uuid.UUID) Draft {
	next := d.clone()
	next.Itinerary.Stops = slices.DeleteFunc(next.Itinerary.Stops, func(s Stop) bool {
		return s.ID == id
	})
	return next
}

// Finalize checks that the itinerary can be saved and returns the record to
// persist, stamped with id and createdAt.
func (d Draft) Finalize(id uuid.UUID, createdAt time.Time) (Itinerary, error) {
	var missing []string
	if strings.TrimSpace(d.Itinerary.Title) == "" {
		missing = append(missing, "title")
	}
	if len(d.Itinerary.Stops) == 0 {
		missing = append(missing, "at least one stop")
	}
	if len(missing) > 0 {
		return Itinerary{}, requiredError(missing)
	}

	out := d.clone().Itinerary
	out.ID = id
	out.CreatedAt = createdAt.UTC()
	return out, nil
}

func requiredError(missing []string) error {
	verb := "is"
	if len(missing) > 1 {
		verb = "are"
	}
	return fmt.Errorf("%w: %s %s required", ErrValidation, strings.Join(missing, " and "), verb)
}
