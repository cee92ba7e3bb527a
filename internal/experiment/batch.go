// Package experiment runs many independently seeded populations side by
// side and summarizes how their epidemics played out.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"epidemic-sim/internal/report"
	"epidemic-sim/internal/simulation"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Batch describes a set of runs sharing one config. Run i uses seed
// Config.Seed + i, so a batch is reproducible.
type Batch struct {
	Config  simulation.Config
	Runs    int
	Rounds  int
	Workers int // Concurrent runs; <= 0 means GOMAXPROCS
	Logger  *slog.Logger
}

// Outcome is the result of one run.
type Outcome struct {
	ID           string
	Seed         uint64
	PeakInfected int
	PeakRound    int
	SaturatedAt  int // -1 if healthy agents remained at the end
	Final        report.Tally
}

// Summary aggregates the outcomes of a batch.
type Summary struct {
	Runs            int
	PeakMean        float64
	PeakStdDev      float64
	PeakRoundMean   float64
	Saturated       int
	SaturationMean  float64 // Only over saturated runs; 0 when none saturated
	ConfirmedMean   float64
	ConfirmedStdDev float64
}

// Run executes every run and returns the outcomes ordered by run index.
// Each run owns its population and generator; nothing is shared.
func (b Batch) Run(ctx context.Context) ([]Outcome, error) {
	if b.Runs <= 0 {
		return nil, fmt.Errorf("batch needs at least one run, got %d", b.Runs)
	}
	if b.Rounds < 0 {
		return nil, fmt.Errorf("rounds must be non-negative, got %d", b.Rounds)
	}
	if err := b.Config.Validate(); err != nil {
		return nil, err
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}

	outcomes := make([]Outcome, b.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < b.Runs; i++ {
		g.Go(func() error {
			out, err := b.runOne(ctx, uint64(i), log)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (b Batch) runOne(ctx context.Context, index uint64, log *slog.Logger) (Outcome, error) {
	cfg := b.Config
	cfg.Seed = b.Config.Seed + index

	pop, err := simulation.NewPopulation(cfg, simulation.NewSource(cfg.Seed))
	if err != nil {
		return Outcome{}, err
	}

	history := report.NewHistory()
	runner := simulation.NewRunner(pop, history)
	// Per-run progress would drown the batch log.
	runner.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := runner.Run(ctx, b.Rounds); err != nil {
		return Outcome{}, err
	}

	peak, peakRound := history.Peak()
	final, _ := history.Last()
	out := Outcome{
		ID:           uuid.NewString(),
		Seed:         cfg.Seed,
		PeakInfected: peak,
		PeakRound:    peakRound,
		SaturatedAt:  history.SaturatedAt(),
		Final:        final,
	}
	log.Info("run finished",
		"run", out.ID, "seed", out.Seed, "peak", out.PeakInfected,
		"peak_round", out.PeakRound, "saturated_at", out.SaturatedAt)
	return out, nil
}

// Summarize computes means and standard deviations over outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Runs: len(outcomes)}
	if len(outcomes) == 0 {
		return s
	}

	peaks := make([]float64, len(outcomes))
	peakRounds := make([]float64, len(outcomes))
	confirmed := make([]float64, len(outcomes))
	var saturation []float64
	for i, o := range outcomes {
		peaks[i] = float64(o.PeakInfected)
		peakRounds[i] = float64(o.PeakRound)
		confirmed[i] = float64(o.Final.Confirmed)
		if o.SaturatedAt >= 0 {
			saturation = append(saturation, float64(o.SaturatedAt))
		}
	}

	s.PeakMean, s.PeakStdDev = meanStdDev(peaks)
	s.PeakRoundMean = stat.Mean(peakRounds, nil)
	s.ConfirmedMean, s.ConfirmedStdDev = meanStdDev(confirmed)
	s.Saturated = len(saturation)
	if len(saturation) > 0 {
		s.SaturationMean = stat.Mean(saturation, nil)
	}
	return s
}

// meanStdDev is stat.MeanStdDev with a zero deviation for a single sample.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
