package simulation

import "fmt"

// Status is the health state of one agent. It only ever increases.
type Status uint8

const (
	Healthy   Status = 0
	Infected  Status = 1
	Confirmed Status = 2
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Infected:
		return "infected"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Counts tallies agents per status.
type Counts struct {
	Healthy   int
	Infected  int
	Confirmed int
}

// Total returns the number of agents counted.
func (c Counts) Total() int {
	return c.Healthy + c.Infected + c.Confirmed
}

func (c *Counts) add(s Status) {
	switch s {
	case Healthy:
		c.Healthy++
	case Infected:
		c.Infected++
	case Confirmed:
		c.Confirmed++
	}
}
