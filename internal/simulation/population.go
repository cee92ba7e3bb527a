package simulation

import (
	"fmt"
	"math/rand/v2"

	"epidemic-sim/internal/common"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"
)

const dimension = 2

// Population holds the full agent state of one simulation run.
// positions, status and entered are index-aligned; the index is the agent.
type Population struct {
	id  string
	cfg Config

	positions []common.Vector
	status    []Status
	entered   []int // Round at which each agent last changed status
	round     int

	src  rand.Source
	rnd  *rand.Rand
	unit distuv.Normal // N(0, 1), shared by infection and movement switches
}

// NewSource returns the deterministic generator used when a caller has no
// source of its own to inject.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// NewPopulation lays out cfg.Count agents around the origin and infects
// cfg.FirstInfected of them. All randomness is drawn from src; a nil src
// falls back to NewSource(cfg.Seed).
func NewPopulation(cfg Config, src rand.Source) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(cfg.Seed)
	}

	p := &Population{
		id:        fmt.Sprintf("population-%s", uuid.NewString()[:8]),
		cfg:       cfg,
		positions: make([]common.Vector, cfg.Count),
		status:    make([]Status, cfg.Count),
		entered:   make([]int, cfg.Count),
		src:       src,
		rnd:       rand.New(src),
		unit:      distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
	if err := p.scatter(); err != nil {
		return nil, err
	}
	if err := p.Reset(); err != nil {
		return nil, err
	}
	return p, nil
}

// scatter draws a fresh layout from N(0, Spread) on each axis.
func (p *Population) scatter() error {
	for i := range p.positions {
		pos, err := common.NewGaussianVector(dimension, 0, p.cfg.Spread, p.src)
		if err != nil {
			return fmt.Errorf("failed to place agent %d: %w", i, err)
		}
		p.positions[i] = pos
	}
	return nil
}

// Reset restarts the scenario on the current layout: round and timers go
// back to 0, everyone is healthy except FirstInfected agents picked
// uniformly at random. Positions are left untouched.
func (p *Population) Reset() error {
	if p.cfg.FirstInfected >= p.cfg.Count {
		return fmt.Errorf("%w: first infected count %d must be less than count %d", ErrInvalidConfig, p.cfg.FirstInfected, p.cfg.Count)
	}

	p.round = 0
	for i := range p.status {
		p.status[i] = Healthy
		p.entered[i] = 0
	}
	for _, i := range p.sample(p.cfg.FirstInfected) {
		p.setState(i, Infected)
	}
	return nil
}

// Rescatter draws a new layout and then resets the scenario on it.
func (p *Population) Rescatter() error {
	if err := p.scatter(); err != nil {
		return err
	}
	return p.Reset()
}

// sample picks k distinct agent indices uniformly at random with a partial
// Fisher-Yates shuffle, so it always terminates in k steps.
func (p *Population) sample(k int) []int {
	n := len(p.status)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + p.rnd.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}

// setState changes an agent's status and stamps the change with the current round.
func (p *Population) setState(i int, s Status) {
	p.status[i] = s
	p.entered[i] = p.round
}

// ID returns the identifier used to tag this population in logs.
func (p *Population) ID() string {
	return p.id
}

// Config returns the parameters the population was built with.
func (p *Population) Config() Config {
	return p.cfg
}

// Count returns the fixed number of agents.
func (p *Population) Count() int {
	return len(p.status)
}

// Round returns the number of completed rounds since the last reset.
func (p *Population) Round() int {
	return p.round
}

// Status returns the status of agent i.
func (p *Population) Status(i int) Status {
	return p.status[i]
}

// StateEntryRound returns the round at which agent i last changed status.
func (p *Population) StateEntryRound(i int) int {
	return p.entered[i]
}

// Position returns a copy of agent i's position.
func (p *Population) Position(i int) common.Vector {
	return p.positions[i].Clone()
}

// Counts tallies the current statuses.
func (p *Population) Counts() Counts {
	var c Counts
	for _, s := range p.status {
		c.add(s)
	}
	return c
}

// IsOver reports whether no healthy agent remains.
func (p *Population) IsOver() bool {
	for _, s := range p.status {
		if s == Healthy {
			return false
		}
	}
	return true
}

// AdvanceRound runs one round: confirmation, infection, movement, in that
// order, then moves the round counter forward. Infection sees the positions
// from the start of the round.
func (p *Population) AdvanceRound() {
	p.confirm()
	p.infect()
	p.move()
	p.round++
}
