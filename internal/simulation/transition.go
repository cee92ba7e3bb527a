package simulation

// confirm moves infected agents to Confirmed. One dwell value is drawn per
// round and shared by everybody; an agent is confirmed when its elapsed time
// equals that draw or exceeds ConfirmAfter. The draw happens even when no
// one is infected so the random stream stays aligned across runs.
func (p *Population) confirm() {
	d := p.cfg.MinDwell + p.rnd.IntN(p.cfg.MaxDwell-p.cfg.MinDwell+1)

	for i, s := range p.status {
		if s != Infected {
			continue
		}
		// Read the timer before setState overwrites it.
		elapsed := p.round - p.entered[i]
		if elapsed == d || elapsed > p.cfg.ConfirmAfter {
			p.setState(i, Confirmed)
		}
	}
}
