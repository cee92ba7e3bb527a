// Package contact finds the agents close enough to an origin point to be
// reached by it within one round.
package contact

import (
	"fmt"

	"epidemic-sim/internal/common"

	"gonum.org/v1/gonum/floats"
)

// Contact is one agent within range of the scan origin.
type Contact struct {
	Index    int
	Distance float64
}

// Scan returns every position strictly closer than radius to origin, ordered
// by ascending distance. Equal distances keep ascending index order.
//
// Walking the result is equivalent to sorting all agents by distance and
// stopping at the first one at or beyond radius, as long as positions do not
// change while the caller walks it.
func Scan(positions []common.Vector, origin common.Vector, radius float64) ([]Contact, error) {
	if radius <= 0 {
		return nil, nil
	}

	dists := make([]float64, 0, 8)
	inds := make([]int, 0, 8)
	for i, pos := range positions {
		if len(pos) != len(origin) {
			return nil, fmt.Errorf("position %d has dimension %d, origin has %d", i, len(pos), len(origin))
		}
		d := floats.Distance(pos, origin, 2)
		if d >= radius {
			continue
		}
		dists = append(dists, d)
		inds = append(inds, i)
	}
	if len(dists) == 0 {
		return nil, nil
	}

	// ArgsortStable sorts dists in place and reports, per sorted slot, the
	// slot it came from in the filtered slice.
	order := make([]int, len(dists))
	floats.ArgsortStable(dists, order)

	contacts := make([]Contact, len(dists))
	for k, from := range order {
		contacts[k] = Contact{Index: inds[from], Distance: dists[k]}
	}
	return contacts, nil
}

// Nearest returns the closest contact within radius that accept reports as
// eligible, and false when there is none.
func Nearest(positions []common.Vector, origin common.Vector, radius float64, accept func(index int) bool) (Contact, bool, error) {
	contacts, err := Scan(positions, origin, radius)
	if err != nil {
		return Contact{}, false, err
	}
	for _, c := range contacts {
		if accept == nil || accept(c.Index) {
			return c, true, nil
		}
	}
	return Contact{}, false, nil
}
