package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"epidemic-sim/internal/experiment"
	"epidemic-sim/internal/report"
	"epidemic-sim/internal/simulation"
	"epidemic-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
)

type options struct {
	mode          string
	rounds        int
	seed          int64
	outDir        string
	video         bool
	fps           int
	scatterEvery  int
	runs          int
	workers       int
	ticksPerRound int
	stopWhenOver  bool
	verbose       bool
}

func main() {
	cfg, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch opts.mode {
	case "window":
		err = runWindow(cfg, opts, logger)
	case "headless":
		err = runHeadless(ctx, cfg, opts, logger)
	case "batch":
		err = runBatch(ctx, cfg, opts, logger)
	default:
		err = fmt.Errorf("unknown mode %q (want window, headless or batch)", opts.mode)
	}
	if err != nil {
		logger.Error("epidemic failed", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (simulation.Config, options, error) {
	cfg := simulation.DefaultConfig()
	var opts options
	var infectionMode string

	fs := flag.NewFlagSet("epidemic", flag.ContinueOnError)
	fs.StringVar(&opts.mode, "mode", "window", "Run mode: window, headless or batch")
	fs.IntVar(&opts.rounds, "rounds", 100, "Number of rounds to simulate (0 = unlimited in window mode)")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed; negative picks one from the clock")
	fs.StringVar(&opts.outDir, "out", "out", "Output directory for headless reports")
	fs.BoolVar(&opts.video, "video", false, "Record an MJPEG video in headless mode")
	fs.IntVar(&opts.fps, "fps", 10, "Video frame rate")
	fs.IntVar(&opts.scatterEvery, "scatter-every", 0, "Write a scatter PNG every N rounds in headless mode (0 = final only)")
	fs.IntVar(&opts.runs, "runs", 20, "Number of runs in batch mode")
	fs.IntVar(&opts.workers, "workers", 0, "Concurrent runs in batch mode (0 = GOMAXPROCS)")
	fs.IntVar(&opts.ticksPerRound, "ticks-per-round", 6, "Window mode pacing: ticks (1/60 s) per round")
	fs.BoolVar(&opts.stopWhenOver, "stop-when-over", false, "Stop as soon as no healthy agent remains")
	fs.BoolVar(&opts.verbose, "v", false, "Log every round")

	fs.IntVar(&cfg.Count, "count", 5000, "Population size")
	fs.IntVar(&cfg.FirstInfected, "infected", cfg.FirstInfected, "Initially infected agents")
	fs.Float64Var(&cfg.Spread, "spread", cfg.Spread, "Standard deviation of the initial layout")
	fs.Float64Var(&cfg.SafeDistance, "safe-distance", cfg.SafeDistance, "Maximum infection distance")
	fs.Float64Var(&cfg.InfectionThreshold, "infection-threshold", cfg.InfectionThreshold, "Standard-normal infection threshold (0 = 50%)")
	fs.StringVar(&infectionMode, "infection-mode", cfg.Mode.String(), "Infection mode: possible or nearest")
	fs.Float64Var(&cfg.MoveWidth, "move-width", cfg.MoveWidth, "Standard deviation of each step")
	fs.Float64Var(&cfg.MoveThreshold, "move-threshold", cfg.MoveThreshold, "Standard-normal movement threshold (1.99 = ~98% move)")
	fs.IntVar(&cfg.MinDwell, "min-dwell", cfg.MinDwell, "Lower bound of the confirmation draw")
	fs.IntVar(&cfg.MaxDwell, "max-dwell", cfg.MaxDwell, "Upper bound of the confirmation draw")
	fs.IntVar(&cfg.ConfirmAfter, "confirm-after", cfg.ConfirmAfter, "Rounds after which an infected agent is always confirmed")

	if err := fs.Parse(args); err != nil {
		return cfg, opts, err
	}

	mode, err := simulation.ParseInfectionMode(infectionMode)
	if err != nil {
		return cfg, opts, err
	}
	cfg.Mode = mode

	if opts.seed < 0 {
		opts.seed = time.Now().UnixNano()
	}
	cfg.Seed = uint64(opts.seed)

	if err := cfg.Validate(); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, nil
}

func runWindow(cfg simulation.Config, opts options, logger *slog.Logger) error {
	pop, err := simulation.NewPopulation(cfg, simulation.NewSource(cfg.Seed))
	if err != nil {
		return fmt.Errorf("error creating population: %w", err)
	}
	logger.Info("population ready", "population", pop.ID(), "agents", pop.Count(), "seed", cfg.Seed)

	r, err := visualization.NewRenderer(pop, logger.With("population", pop.ID()))
	if err != nil {
		return err
	}
	r.TicksPerRound = opts.ticksPerRound
	r.MaxRounds = opts.rounds
	r.StopWhenOver = opts.stopWhenOver

	ebiten.SetWindowSize(1000, 1000)
	ebiten.SetWindowTitle("Epidemic simulation")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(r)
}

func runHeadless(ctx context.Context, cfg simulation.Config, opts options, logger *slog.Logger) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	pop, err := simulation.NewPopulation(cfg, simulation.NewSource(cfg.Seed))
	if err != nil {
		return fmt.Errorf("error creating population: %w", err)
	}

	history := report.NewHistory()
	runner := simulation.NewRunner(pop, history)
	runner.Logger = logger
	runner.StopWhenOver = opts.stopWhenOver

	if opts.scatterEvery > 0 {
		runner.Observers = append(runner.Observers, simulation.ObserverFunc(func(s simulation.Snapshot) error {
			if s.Round%opts.scatterEvery != 0 {
				return nil
			}
			return writeFile(filepath.Join(opts.outDir, fmt.Sprintf("round_%04d.png", s.Round)), func(f *os.File) error {
				return report.WriteScatter(f, s)
			})
		}))
	}

	var recorder *report.Recorder
	if opts.video {
		recorder, err = report.NewRecorder(filepath.Join(opts.outDir, "epidemic.avi"), 800, 800, opts.fps)
		if err != nil {
			return err
		}
		runner.Observers = append(runner.Observers, recorder)
	}

	last, runErr := runner.Run(ctx, opts.rounds)
	if recorder != nil {
		if err := recorder.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := writeFile(filepath.Join(opts.outDir, "history.csv"), func(f *os.File) error {
		return report.WriteCSV(f, history)
	}); err != nil {
		return err
	}
	if len(history.Tallies) >= 2 {
		if err := writeFile(filepath.Join(opts.outDir, "curve.png"), func(f *os.File) error {
			return report.WriteCurve(f, history)
		}); err != nil {
			return err
		}
	}
	if err := writeFile(filepath.Join(opts.outDir, "final.png"), func(f *os.File) error {
		return report.WriteScatter(f, last)
	}); err != nil {
		return err
	}

	peak, peakRound := history.Peak()
	logger.Info("reports written", "dir", opts.outDir, "peak_infected", peak, "peak_round", peakRound,
		"saturated_at", history.SaturatedAt())
	return nil
}

func runBatch(ctx context.Context, cfg simulation.Config, opts options, logger *slog.Logger) error {
	b := experiment.Batch{
		Config:  cfg,
		Runs:    opts.runs,
		Rounds:  opts.rounds,
		Workers: opts.workers,
		Logger:  logger,
	}
	outcomes, err := b.Run(ctx)
	if err != nil {
		return err
	}
	s := experiment.Summarize(outcomes)
	logger.Info("batch summary",
		"runs", s.Runs,
		"peak_mean", fmt.Sprintf("%.1f", s.PeakMean),
		"peak_std", fmt.Sprintf("%.1f", s.PeakStdDev),
		"peak_round_mean", fmt.Sprintf("%.1f", s.PeakRoundMean),
		"saturated", s.Saturated,
		"saturation_round_mean", fmt.Sprintf("%.1f", s.SaturationMean),
		"confirmed_mean", fmt.Sprintf("%.1f", s.ConfirmedMean),
		"transmission_probability", fmt.Sprintf("%.3f", simulation.TransmissionProbability(cfg.InfectionThreshold)))
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
