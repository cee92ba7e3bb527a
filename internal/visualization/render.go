package visualization

import (
	"fmt"
	"image/color"
	"log/slog"

	"epidemic-sim/internal/common"
	"epidemic-sim/internal/simulation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	agentRadiusOnScreen = 1.5  // Радиус агента на экране
	padding             = 50.0 // Отступ от краев экрана
)

var (
	backgroundColor = color.RGBA{230, 230, 230, 255}
	healthyColor    = color.RGBA{31, 119, 180, 255}
	infectedColor   = color.RGBA{255, 192, 203, 255}
	confirmedColor  = color.RGBA{255, 0, 0, 255}
)

// Stepper is the part of a population the renderer drives.
type Stepper interface {
	AdvanceRound()
	Snapshot() simulation.Snapshot
}

// Renderer implements ebiten.Game. It advances the population once every
// TicksPerRound ticks and draws the latest snapshot.
type Renderer struct {
	pop           Stepper
	observers     []simulation.Observer
	logger        *slog.Logger
	viewport      *common.Viewport
	snap          simulation.Snapshot
	ticks         int
	TicksPerRound int
	MaxRounds     int  // 0 means no limit
	StopWhenOver  bool // Freeze once no healthy agent remains
}

// NewRenderer creates a renderer over pop. Observers see every snapshot the
// renderer takes, including the initial one.
func NewRenderer(pop Stepper, logger *slog.Logger, observers ...simulation.Observer) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		pop:           pop,
		observers:     observers,
		logger:        logger,
		viewport:      common.NewViewport(0, 0, padding),
		snap:          pop.Snapshot(),
		TicksPerRound: 6,
	}
	if err := r.notify(); err != nil {
		return nil, err
	}
	return r, nil
}

// Update is called every tick and paces the rounds.
func (r *Renderer) Update() error {
	if r.finished() {
		return nil
	}
	r.ticks++
	if r.TicksPerRound > 1 && r.ticks%r.TicksPerRound != 0 {
		return nil
	}

	r.pop.AdvanceRound()
	r.snap = r.pop.Snapshot()
	c := r.snap.Counts()
	r.logger.Debug("round complete",
		"round", r.snap.Round, "healthy", c.Healthy, "infected", c.Infected, "confirmed", c.Confirmed)

	if err := r.notify(); err != nil {
		return err
	}
	if r.finished() {
		r.logger.Info("simulation finished",
			"round", r.snap.Round, "healthy", c.Healthy, "infected", c.Infected, "confirmed", c.Confirmed)
	}
	return nil
}

func (r *Renderer) finished() bool {
	if r.MaxRounds > 0 && r.snap.Round >= r.MaxRounds {
		return true
	}
	return r.StopWhenOver && r.snap.Over()
}

func (r *Renderer) notify() error {
	for _, o := range r.observers {
		if err := o.Observe(r.snap); err != nil {
			return fmt.Errorf("observer failed at round %d: %w", r.snap.Round, err)
		}
	}
	return nil
}

// Draw is called every frame to render the latest snapshot.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	r.viewport.Fit(r.snap.Healthy, r.snap.Infected, r.snap.Confirmed)
	r.drawGroup(screen, r.snap.Healthy, healthyColor)
	r.drawGroup(screen, r.snap.Infected, infectedColor)
	r.drawGroup(screen, r.snap.Confirmed, confirmedColor)

	r.drawDebugInfo(screen)
}

func (r *Renderer) drawGroup(screen *ebiten.Image, points []common.Vector, clr color.Color) {
	for _, p := range points {
		x, y := r.viewport.ToScreen(p)
		vector.DrawFilledCircle(screen, x, y, agentRadiusOnScreen, clr, true)
	}
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	msg := r.snap.Caption() + "\n"
	msg += fmt.Sprintf("FPS: %.1f, TPS: %.1f\n", ebiten.ActualFPS(), ebiten.ActualTPS())
	msg += "healthy: blue, infected: pink, confirmed: red"
	if r.finished() {
		msg += "\nfinished"
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.viewport.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
