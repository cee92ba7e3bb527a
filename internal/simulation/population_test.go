package simulation

import (
	"errors"
	"math"
	"testing"

	"epidemic-sim/internal/common"

	"gonum.org/v1/gonum/stat"
)

func testConfig(count, firstInfected int) Config {
	cfg := DefaultConfig()
	cfg.Count = count
	cfg.FirstInfected = firstInfected
	return cfg
}

func newTestPopulation(t *testing.T, cfg Config, seed uint64) *Population {
	t.Helper()
	p, err := NewPopulation(cfg, NewSource(seed))
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}
	return p
}

// place overwrites the layout and statuses so a test controls geometry exactly.
func place(p *Population, points [][2]float64, statuses []Status) {
	for i, pt := range points {
		p.positions[i] = common.Vector{pt[0], pt[1]}
		p.status[i] = statuses[i]
		p.entered[i] = 0
	}
}

func TestNewPopulationRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"infected equals count", func(c *Config) { c.Count, c.FirstInfected = 10, 10 }},
		{"infected above count", func(c *Config) { c.Count, c.FirstInfected = 10, 11 }},
		{"negative infected", func(c *Config) { c.FirstInfected = -1 }},
		{"empty population", func(c *Config) { c.Count, c.FirstInfected = 0, 0 }},
		{"zero safe distance", func(c *Config) { c.SafeDistance = 0 }},
		{"negative width", func(c *Config) { c.MoveWidth = -1 }},
		{"inverted dwell", func(c *Config) { c.MinDwell, c.MaxDwell = 6, 3 }},
		{"unknown mode", func(c *Config) { c.Mode = InfectionMode(7) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(100, 3)
			tt.mutate(&cfg)
			p, err := NewPopulation(cfg, NewSource(1))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if p != nil {
				t.Fatalf("expected no population on error")
			}
		})
	}
}

func TestResetInitialCondition(t *testing.T) {
	p := newTestPopulation(t, testConfig(200, 7), 42)

	check := func(t *testing.T) {
		t.Helper()
		if p.Round() != 0 {
			t.Fatalf("round = %d, want 0", p.Round())
		}
		c := p.Counts()
		if c.Infected != 7 || c.Healthy != 193 || c.Confirmed != 0 {
			t.Fatalf("counts = %+v, want 193/7/0", c)
		}
		for i := 0; i < p.Count(); i++ {
			if p.StateEntryRound(i) != 0 {
				t.Fatalf("agent %d timer = %d, want 0", i, p.StateEntryRound(i))
			}
		}
	}
	check(t)

	for i := 0; i < 10; i++ {
		p.AdvanceRound()
	}
	moved := make([]common.Vector, p.Count())
	for i := range moved {
		moved[i] = p.Position(i)
	}

	if err := p.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	check(t)
	for i := range moved {
		if d, _ := moved[i].Distance(p.Position(i)); d != 0 {
			t.Fatalf("agent %d moved during reset", i)
		}
	}
}

func TestResetCanInfectAllButOne(t *testing.T) {
	p := newTestPopulation(t, testConfig(50, 49), 3)
	if c := p.Counts(); c.Infected != 49 || c.Healthy != 1 {
		t.Fatalf("counts = %+v, want 1 healthy and 49 infected", c)
	}
}

func TestRescatterDrawsNewLayout(t *testing.T) {
	p := newTestPopulation(t, testConfig(20, 2), 9)
	old := p.Position(0)
	p.AdvanceRound()
	if err := p.Rescatter(); err != nil {
		t.Fatalf("Rescatter: %v", err)
	}
	if d, _ := old.Distance(p.Position(0)); d == 0 {
		t.Fatalf("expected a new position for agent 0")
	}
	if p.Round() != 0 || p.Counts().Infected != 2 {
		t.Fatalf("expected a reset scenario, got round %d counts %+v", p.Round(), p.Counts())
	}
}

func TestRoundInvariants(t *testing.T) {
	cfg := testConfig(400, 5)
	cfg.Spread = 15 // dense enough for the epidemic to spread
	p := newTestPopulation(t, cfg, 7)

	prev := make([]Status, p.Count())
	for i := range prev {
		prev[i] = p.Status(i)
	}

	for r := 0; r < 80; r++ {
		p.AdvanceRound()

		if len(p.positions) != cfg.Count || len(p.status) != cfg.Count || len(p.entered) != cfg.Count {
			t.Fatalf("round %d: state slices lost alignment", p.Round())
		}
		if got := p.Counts().Total(); got != cfg.Count {
			t.Fatalf("round %d: %d agents counted, want %d", p.Round(), got, cfg.Count)
		}
		for i := 0; i < p.Count(); i++ {
			s := p.Status(i)
			if s > Confirmed {
				t.Fatalf("agent %d has status %d", i, s)
			}
			if s < prev[i] {
				t.Fatalf("round %d: agent %d went from %v to %v", p.Round(), i, prev[i], s)
			}
			if p.StateEntryRound(i) > p.Round() {
				t.Fatalf("agent %d entered its state in the future", i)
			}
			if s == Infected && p.Round()-p.StateEntryRound(i) > cfg.ConfirmAfter+1 {
				t.Fatalf("round %d: agent %d infected since round %d", p.Round(), i, p.StateEntryRound(i))
			}
			prev[i] = s
		}
	}
}

func TestConfirmTransition(t *testing.T) {
	cfg := testConfig(6, 1)
	cfg.MinDwell, cfg.MaxDwell = 4, 4
	p := newTestPopulation(t, cfg, 1)

	p.round = 20
	entered := []int{16, 17, 5, 6, 20, 10}
	statuses := []Status{Infected, Infected, Infected, Infected, Healthy, Confirmed}
	for i := range entered {
		p.status[i] = statuses[i]
		p.entered[i] = entered[i]
	}

	p.confirm()

	want := []struct {
		status  Status
		entered int
	}{
		{Confirmed, 20}, // elapsed 4 matches the draw
		{Infected, 17},  // elapsed 3
		{Confirmed, 20}, // elapsed 15 exceeds the bound
		{Infected, 6},   // elapsed 14 is still allowed
		{Healthy, 20},
		{Confirmed, 10},
	}
	for i, w := range want {
		if p.Status(i) != w.status || p.StateEntryRound(i) != w.entered {
			t.Errorf("agent %d: got %v since %d, want %v since %d",
				i, p.Status(i), p.StateEntryRound(i), w.status, w.entered)
		}
	}
}

func TestInfectionRange(t *testing.T) {
	points := [][2]float64{{0, 0}, {0.5, 0}, {0, 1}, {1.9, 0}, {2.0, 0}, {10, 10}}
	statuses := []Status{Infected, Healthy, Healthy, Healthy, Healthy, Healthy}

	tests := []struct {
		name      string
		threshold float64
		want      []Status
	}{
		{"always", math.Inf(1), []Status{Infected, Infected, Infected, Infected, Healthy, Healthy}},
		{"never", math.Inf(-1), []Status{Infected, Healthy, Healthy, Healthy, Healthy, Healthy}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(len(points), 1)
			cfg.InfectionThreshold = tt.threshold
			p := newTestPopulation(t, cfg, 5)
			place(p, points, statuses)
			p.round = 3

			p.infect()

			for i, w := range tt.want {
				if p.Status(i) != w {
					t.Errorf("agent %d: got %v, want %v", i, p.Status(i), w)
				}
				if i > 0 && w == Infected && p.StateEntryRound(i) != 3 {
					t.Errorf("agent %d: timer %d, want 3", i, p.StateEntryRound(i))
				}
			}
		})
	}
}

func TestNewInfectionsDoNotSpreadSameRound(t *testing.T) {
	cfg := testConfig(3, 1)
	cfg.InfectionThreshold = math.Inf(1)
	p := newTestPopulation(t, cfg, 5)
	place(p, [][2]float64{{0, 0}, {1.5, 0}, {3.0, 0}}, []Status{Infected, Healthy, Healthy})

	p.infect()
	if p.Status(1) != Infected {
		t.Fatalf("agent 1 should be infected by agent 0")
	}
	if p.Status(2) != Healthy {
		t.Fatalf("agent 2 was infected by an agent infected in the same round")
	}

	p.infect()
	if p.Status(2) != Infected {
		t.Fatalf("agent 2 should be infected once agent 1 is a source")
	}
}

func TestNoReinfection(t *testing.T) {
	cfg := testConfig(3, 1)
	cfg.InfectionThreshold = math.Inf(1)
	p := newTestPopulation(t, cfg, 5)
	place(p, [][2]float64{{0, 0}, {0.1, 0}, {0.2, 0}}, []Status{Infected, Confirmed, Infected})
	p.round = 9

	p.infect()

	for i, want := range []Status{Infected, Confirmed, Infected} {
		if p.Status(i) != want || p.StateEntryRound(i) != 0 {
			t.Errorf("agent %d changed: %v since %d", i, p.Status(i), p.StateEntryRound(i))
		}
	}
}

func TestNearestModeInfectsOnlyClosestHealthy(t *testing.T) {
	cfg := testConfig(4, 1)
	cfg.Mode = SpreadNearest
	p := newTestPopulation(t, cfg, 5)
	place(p, [][2]float64{{0, 0}, {0.5, 0}, {1.0, 0}, {1.5, 0}}, []Status{Infected, Confirmed, Healthy, Healthy})

	p.infect()

	want := []Status{Infected, Confirmed, Infected, Healthy}
	for i, w := range want {
		if p.Status(i) != w {
			t.Errorf("agent %d: got %v, want %v", i, p.Status(i), w)
		}
	}
}

func TestTerminationScenario(t *testing.T) {
	if _, err := NewPopulation(testConfig(10, 10), NewSource(1)); err == nil {
		t.Fatalf("expected 10 agents with 10 infected to be rejected")
	}

	cfg := testConfig(10, 9)
	cfg.SafeDistance = 1e9
	cfg.InfectionThreshold = math.Inf(1)
	p := newTestPopulation(t, cfg, 11)

	for r := 0; r < 5 && !p.IsOver(); r++ {
		p.AdvanceRound()
	}
	if !p.IsOver() {
		t.Fatalf("epidemic did not saturate, counts %+v", p.Counts())
	}
	if !p.Snapshot().Over() {
		t.Fatalf("snapshot disagrees with IsOver")
	}

	// Rounds after saturation stay well-defined.
	for r := 0; r < 30; r++ {
		p.AdvanceRound()
	}
	if c := p.Counts(); c.Confirmed != 10 {
		t.Fatalf("expected everyone confirmed after 30 more rounds, got %+v", c)
	}
}

func TestMovementStatistics(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		tolerance float64
	}{
		{"half", 0, 0.03},
		{"default", 1.99, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(5000, 1)
			cfg.MoveThreshold = tt.threshold
			p := newTestPopulation(t, cfg, 13)

			before := make([]common.Vector, p.Count())
			for i := range before {
				before[i] = p.Position(i)
			}
			p.move()

			var dx, dy []float64
			for i := range before {
				x := p.positions[i][0] - before[i][0]
				y := p.positions[i][1] - before[i][1]
				if x == 0 && y == 0 {
					continue
				}
				dx = append(dx, x)
				dy = append(dy, y)
			}

			frac := float64(len(dx)) / float64(p.Count())
			want := TransmissionProbability(tt.threshold)
			if math.Abs(frac-want) > tt.tolerance {
				t.Fatalf("moving fraction %.3f, want about %.3f", frac, want)
			}

			for axis, d := range [][]float64{dx, dy} {
				mean, variance := stat.MeanVariance(d, nil)
				if math.Abs(mean) > 0.25 {
					t.Errorf("axis %d: mean displacement %.3f, want about 0", axis, mean)
				}
				if math.Abs(math.Sqrt(variance)-cfg.MoveWidth) > 0.2 {
					t.Errorf("axis %d: displacement std %.3f, want about %.1f", axis, math.Sqrt(variance), cfg.MoveWidth)
				}
			}
		})
	}
}

func TestMovementIgnoresStatus(t *testing.T) {
	cfg := testConfig(300, 1)
	cfg.MoveThreshold = math.Inf(1)
	p := newTestPopulation(t, cfg, 17)
	for i := range p.status {
		p.status[i] = Status(i % 3)
	}
	before := make([]common.Vector, p.Count())
	for i := range before {
		before[i] = p.Position(i)
	}
	p.move()
	for i := range before {
		if d, _ := before[i].Distance(p.Position(i)); d == 0 {
			t.Fatalf("agent %d (%v) did not move with every switch on", i, p.Status(i))
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	cfg := testConfig(300, 4)
	cfg.Spread = 10
	a := newTestPopulation(t, cfg, 99)
	b := newTestPopulation(t, cfg, 99)

	for r := 0; r < 25; r++ {
		a.AdvanceRound()
		b.AdvanceRound()
	}
	if a.Counts() != b.Counts() {
		t.Fatalf("counts diverged: %+v vs %+v", a.Counts(), b.Counts())
	}
	for i := 0; i < a.Count(); i++ {
		if a.Status(i) != b.Status(i) {
			t.Fatalf("agent %d status diverged", i)
		}
		if d, _ := a.Position(i).Distance(b.Position(i)); d != 0 {
			t.Fatalf("agent %d position diverged", i)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	p := newTestPopulation(t, testConfig(30, 3), 21)
	snap := p.Snapshot()
	if snap.Counts().Total() != 30 || snap.Counts() != p.Counts() {
		t.Fatalf("snapshot counts %+v, population %+v", snap.Counts(), p.Counts())
	}
	if len(snap.Infected) != 3 {
		t.Fatalf("snapshot has %d infected, want 3", len(snap.Infected))
	}

	orig := p.Position(0)
	for _, group := range [][]common.Vector{snap.Healthy, snap.Infected, snap.Confirmed} {
		for _, v := range group {
			v[0] += 1000
		}
	}
	if d, _ := orig.Distance(p.Position(0)); d != 0 {
		t.Fatalf("editing a snapshot changed the population")
	}
}

func TestTransmissionProbability(t *testing.T) {
	if got := TransmissionProbability(0); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("P(0) = %v, want 0.5", got)
	}
	if TransmissionProbability(-1) >= TransmissionProbability(0) || TransmissionProbability(1) <= TransmissionProbability(0) {
		t.Fatalf("probability must increase with the threshold")
	}
}
