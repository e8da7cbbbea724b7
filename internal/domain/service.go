package domain

import (
	"errors"
	"fmt"
)

// ServiceSpec is an offered service of a resource
type ServiceSpec struct {
	ID              int64
	ResourceID      int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
}

// Selection is an ordered set of services booked together
type Selection []ServiceSpec

// TotalDuration returns the sum of durations, not rounded
func (s Selection) TotalDuration() int {
	total := 0
	for _, spec := range s {
		total += spec.DurationMinutes
	}
	return total
}

// TotalPrice returns the sum of prices
func (s Selection) TotalPrice() float64 {
	total := 0.0
	for _, spec := range s {
		total += spec.Price
	}
	return total
}

// IDs returns service identifiers in selection order
func (s Selection) IDs() []int64 {
	ids := make([]int64, len(s))
	for i, spec := range s {
		ids[i] = spec.ID
	}
	return ids
}

// ErrInvalidSelection is returned when a selection cannot be booked
var ErrInvalidSelection = errors.New("domain: invalid service selection")

// ResolveSelection maps requested ids onto the resource's services.
// An empty request, a duplicate, an unknown or inactive service is rejected.
func ResolveSelection(services []ServiceSpec, ids []int64) (Selection, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no services selected", ErrInvalidSelection)
	}
	if len(ids) > MaxServicesPerReservation {
		return nil, fmt.Errorf("%w: at most %d services per reservation", ErrInvalidSelection, MaxServicesPerReservation)
	}

	byID := make(map[int64]ServiceSpec, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	seen := make(map[int64]struct{}, len(ids))
	selection := make(Selection, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: service %d selected twice", ErrInvalidSelection, id)
		}
		seen[id] = struct{}{}

		spec, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: service %d is not offered", ErrInvalidSelection, id)
		}
		if !spec.Active {
			return nil, fmt.Errorf("%w: service %d is inactive", ErrInvalidSelection, id)
		}
		if spec.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: service %d has no duration", ErrInvalidSelection, id)
		}
		selection = append(selection, spec)
	}

	return selection, nil
}
