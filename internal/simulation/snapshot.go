package simulation

import (
	"fmt"

	"epidemic-sim/internal/common"
)

// Snapshot is a point-in-time copy of a population, grouped by status.
// It shares no memory with the population it was taken from.
type Snapshot struct {
	PopulationID string
	Round        int
	Healthy      []common.Vector
	Infected     []common.Vector
	Confirmed    []common.Vector
}

// Snapshot copies the current positions grouped by status.
func (p *Population) Snapshot() Snapshot {
	c := p.Counts()
	snap := Snapshot{
		PopulationID: p.id,
		Round:        p.round,
		Healthy:      make([]common.Vector, 0, c.Healthy),
		Infected:     make([]common.Vector, 0, c.Infected),
		Confirmed:    make([]common.Vector, 0, c.Confirmed),
	}
	for i, s := range p.status {
		pos := p.positions[i].Clone()
		switch s {
		case Healthy:
			snap.Healthy = append(snap.Healthy, pos)
		case Infected:
			snap.Infected = append(snap.Infected, pos)
		case Confirmed:
			snap.Confirmed = append(snap.Confirmed, pos)
		}
	}
	return snap
}

// Counts returns the size of each group.
func (s Snapshot) Counts() Counts {
	return Counts{Healthy: len(s.Healthy), Infected: len(s.Infected), Confirmed: len(s.Confirmed)}
}

// Over reports whether no healthy agent remains.
func (s Snapshot) Over() bool {
	return len(s.Healthy) == 0
}

// Caption is the one-line summary shown next to rendered snapshots.
func (s Snapshot) Caption() string {
	return fmt.Sprintf("Round: %d, Healthy: %d, Infected: %d, Confirmed: %d",
		s.Round, len(s.Healthy), len(s.Infected), len(s.Confirmed))
}
