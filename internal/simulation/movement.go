package simulation

import (
	"epidemic-sim/internal/common"

	"gonum.org/v1/gonum/stat/distuv"
)

// move applies one random step to every agent regardless of status.
// All displacements are drawn first, then all movement switches; an agent
// whose switch is off keeps its position this round.
func (p *Population) move() {
	steps := p.displacements(p.cfg.MoveWidth)
	switches := p.switches(p.cfg.MoveThreshold)
	for i, on := range switches {
		if !on {
			steps[i].Zero()
		}
		// Both vectors are two-dimensional.
		_ = p.positions[i].AddInPlace(steps[i])
	}
}

// displacements draws one N(0, width) step per agent, x before y.
func (p *Population) displacements(width float64) []common.Vector {
	dist := distuv.Normal{Mu: 0, Sigma: width, Src: p.src}
	steps := make([]common.Vector, len(p.positions))
	for i := range steps {
		v := common.NewVector(dimension)
		for j := range v {
			v[j] = dist.Rand()
		}
		steps[i] = v
	}
	return steps
}

// switches draws one movement switch per agent: on when a standard normal
// sample falls below x. x = 0 turns about half the agents on, 1.99 about 98%.
func (p *Population) switches(x float64) []bool {
	out := make([]bool, len(p.positions))
	for i := range out {
		out[i] = p.unit.Rand() < x
	}
	return out
}
