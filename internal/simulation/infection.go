package simulation

import (
	"epidemic-sim/internal/contact"

	"gonum.org/v1/gonum/stat/distuv"
)

// TransmissionProbability returns the chance that one eligible encounter
// transmits for threshold x, i.e. P(Z <= x) for a standard normal Z.
func TransmissionProbability(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// infect spreads the disease from every agent that was infected when the
// step began. Agents infected during this step do not spread it further
// until the next round.
func (p *Population) infect() {
	sources := p.infectedIndices()
	for _, src := range sources {
		switch p.cfg.Mode {
		case SpreadNearest:
			p.infectNearest(src)
		default:
			p.infectPossible(src)
		}
	}
}

func (p *Population) infectedIndices() []int {
	var out []int
	for i, s := range p.status {
		if s == Infected {
			out = append(out, i)
		}
	}
	return out
}

// infectPossible walks the contacts of src nearest first. Every healthy one
// gets an independent draw; the walk does not stop after a success.
func (p *Population) infectPossible(src int) {
	// Positions share one dimension, so Scan cannot fail here.
	contacts, _ := contact.Scan(p.positions, p.positions[src], p.cfg.SafeDistance)
	for _, c := range contacts {
		if p.status[c.Index] > Healthy {
			continue
		}
		if p.unit.Rand() > p.cfg.InfectionThreshold {
			continue
		}
		p.setState(c.Index, Infected)
	}
}

// infectNearest infects the single closest healthy contact of src, if any.
func (p *Population) infectNearest(src int) {
	c, ok, _ := contact.Nearest(p.positions, p.positions[src], p.cfg.SafeDistance, func(i int) bool {
		return p.status[i] == Healthy
	})
	if ok {
		p.setState(c.Index, Infected)
	}
}
