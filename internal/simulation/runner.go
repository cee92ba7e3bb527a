package simulation

import (
	"context"
	"fmt"
	"log/slog"
)

// Observer receives a snapshot after every completed round. Observing must
// not feed anything back into the population.
type Observer interface {
	Observe(snap Snapshot) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(snap Snapshot) error

// Observe calls f(snap).
func (f ObserverFunc) Observe(snap Snapshot) error {
	return f(snap)
}

// Runner drives a population for a number of rounds and hands every
// snapshot to its observers.
type Runner struct {
	Population   *Population
	Observers    []Observer
	Logger       *slog.Logger
	StopWhenOver bool // Stop early once no healthy agent remains
}

// NewRunner creates a runner for p with the default logger.
func NewRunner(p *Population, observers ...Observer) *Runner {
	return &Runner{Population: p, Observers: observers, Logger: slog.Default()}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run emits the current snapshot, then advances up to rounds rounds,
// emitting a snapshot after each. The context is only checked between
// rounds; a round is never interrupted. The last snapshot is returned.
func (r *Runner) Run(ctx context.Context, rounds int) (Snapshot, error) {
	p := r.Population
	if p == nil {
		return Snapshot{}, fmt.Errorf("runner has no population")
	}
	log := r.logger().With("population", p.ID())

	c := p.Counts()
	log.Info("starting simulation",
		"agents", p.Count(), "rounds", rounds, "mode", p.Config().Mode.String(),
		"healthy", c.Healthy, "infected", c.Infected, "confirmed", c.Confirmed)

	snap := p.Snapshot()
	if err := r.notify(snap); err != nil {
		return snap, err
	}

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			log.Warn("simulation interrupted", "round", p.Round(), "err", err)
			return snap, err
		}
		if r.StopWhenOver && snap.Over() {
			log.Info("no healthy agents left", "round", p.Round())
			break
		}

		p.AdvanceRound()
		snap = p.Snapshot()

		c := snap.Counts()
		log.Debug("round complete",
			"round", snap.Round, "healthy", c.Healthy, "infected", c.Infected, "confirmed", c.Confirmed)

		if err := r.notify(snap); err != nil {
			return snap, err
		}
	}

	c = snap.Counts()
	log.Info("simulation finished",
		"round", snap.Round, "healthy", c.Healthy, "infected", c.Infected, "confirmed", c.Confirmed)
	return snap, nil
}

func (r *Runner) notify(snap Snapshot) error {
	for _, o := range r.Observers {
		if err := o.Observe(snap); err != nil {
			return fmt.Errorf("observer failed at round %d: %w", snap.Round, err)
		}
	}
	return nil
}
