// Package loop runs the fixed-cadence frame loops: the device board over a
// toroidal world and the host terminal over the infinite plane.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifeboard/internal/core"
	"lifeboard/internal/device"
	"lifeboard/internal/health"
	"lifeboard/internal/render"
	"lifeboard/internal/scene"
	"lifeboard/internal/telemetry"
	"lifeboard/internal/viewport"
	pcore "lifeboard/pkg/core"
	"lifeboard/pkg/sims/life"
)

// DefaultCycle is the number of generations each scene runs before the next
// one is loaded.
const DefaultCycle = 200

// Options configures a Board.
type Options struct {
	Variant      core.Variant
	Scenes       scene.Table
	Cycle        uint64
	StartScene   int
	SplashFrames int
	// Seed fixes the boot seed; zero seeds from the clock.
	Seed      uint32
	LingerMin int
	LingerMax int
}

// Peripherals are the devices a Board drives.
type Peripherals struct {
	Display device.Display
	LED     device.LED
	Button  device.Button
	Clock   device.Clock
}

// Publisher receives every rendered frame, e.g. the network observer.
type Publisher interface {
	Publish(telemetry.FrameSample)
}

// Board is the device frame loop. It is not safe for concurrent use; every
// method must be called from the loop goroutine.
type Board struct {
	opts  Options
	dev   Peripherals
	log   *slog.Logger
	rng   *pcore.XorShift32
	torus *life.Torus
	view  *viewport.Viewport

	recorder  telemetry.Recorder
	publisher Publisher

	booted     bool
	splashLeft int
	status     []string
	sceneIdx   int
	prevPop    int
	wasPressed bool
	softErrs   uint64
}

// NewBoard builds a board for opts. Display, LED and Button are required;
// a missing Clock defaults to a monotonic clock.
func NewBoard(opts Options, dev Peripherals, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Cycle == 0 {
		opts.Cycle = DefaultCycle
	}
	if opts.Scenes.Len() == 0 {
		opts.Scenes = scene.Default()
	}
	if dev.Clock == nil {
		dev.Clock = device.NewMonotonicClock()
	}
	b := &Board{
		opts:       opts,
		dev:        dev,
		log:        logger,
		rng:        pcore.NewXorShift32(1),
		torus:      life.NewTorus(opts.Variant.World.W, opts.Variant.World.H),
		splashLeft: opts.SplashFrames,
		sceneIdx:   wrapIndex(opts.StartScene, opts.Scenes.Len()),
	}
	if opts.Variant.Seek {
		b.view = viewport.New(viewport.Config{
			World:     opts.Variant.World,
			Screen:    opts.Variant.Screen,
			Tile:      opts.Variant.Tile,
			LingerMin: opts.LingerMin,
			LingerMax: opts.LingerMax,
		})
	}
	return b
}

// SetRecorder installs the telemetry sink.
func (b *Board) SetRecorder(r telemetry.Recorder) { b.recorder = r }

// SetPublisher installs the frame publisher.
func (b *Board) SetPublisher(p Publisher) { b.publisher = p }

// SetStatus sets the lines shown on the boot splash.
func (b *Board) SetStatus(lines ...string) { b.status = lines }

// Torus exposes the simulated world.
func (b *Board) Torus() *life.Torus { return b.torus }

// Viewport returns the seeking viewport, or nil when the variant has none.
func (b *Board) Viewport() *viewport.Viewport { return b.view }

// Generation returns the generation of the current scene run.
func (b *Board) Generation() uint64 { return b.torus.Generation() }

// SceneIndex returns the index of the current scene.
func (b *Board) SceneIndex() int { return b.sceneIdx }

// SceneName returns the name of the current scene.
func (b *Board) SceneName() string { return b.opts.Scenes.Name(b.sceneIdx) }

// Splashing reports whether the boot splash is still showing.
func (b *Board) Splashing() bool { return b.splashLeft > 0 }

// SoftErrors counts peripheral errors that dropped a frame or a LED update.
func (b *Board) SoftErrors() uint64 { return b.softErrs }

// Origin returns the top-left world coordinate of the visible window.
func (b *Board) Origin() (int, int) {
	if b.view == nil {
		return 0, 0
	}
	return b.view.Origin()
}

// Boot seeds the PRNG and loads the start scene. Tick calls it once the
// splash is over; calling it again has no effect.
func (b *Board) Boot() {
	if b.booted {
		return
	}
	b.booted = true
	seed := b.opts.Seed
	if seed == 0 {
		seed = pcore.SeedFromTimer(b.dev.Clock.Ticks())
	}
	b.rng.Seed(seed)
	name := b.load()
	b.log.Info(fmt.Sprintf("Scene: %s (gen %d)", name, b.torus.Generation()), "seed", seed)
	b.record(telemetry.KindBoot, seed)
}

// Tick runs one frame: render, report health, step, move the viewport, then
// handle the button and the scene schedule. Only errors wrapping
// device.ErrBusLost are returned.
func (b *Board) Tick() error {
	if b.splashLeft > 0 {
		b.splashLeft--
		return b.soft("splash", device.ShowStatus(b.dev.Display, b.status...))
	}
	b.Boot()

	ox, oy := b.Origin()
	if err := b.soft("display", render.Blit(b.dev.Display, b.torus.Current(), ox, oy)); err != nil {
		return err
	}

	pop := b.torus.Population()
	hsv := health.Map(pop, b.prevPop, b.opts.Variant.Midpoint)
	if err := b.soft("led", b.dev.LED.Write(hsv.RGB())); err != nil {
		return err
	}
	sample := telemetry.FrameSample{
		Generation: b.torus.Generation(),
		SceneIndex: b.sceneIdx,
		Scene:      b.SceneName(),
		Population: pop,
		Previous:   b.prevPop,
		Hue:        hsv.Hue,
		Val:        hsv.Val,
		ViewX:      ox,
		ViewY:      oy,
	}
	b.prevPop = pop
	if b.recorder != nil {
		if err := b.recorder.RecordFrame(sample); err != nil {
			b.log.Debug("record frame", "err", err)
		}
	}
	if b.publisher != nil {
		b.publisher.Publish(sample)
	}

	b.torus.Step()
	if b.view != nil {
		b.view.Update(b.torus.Current(), b.rng)
	}

	pressed := b.dev.Button.Pressed()
	rerolled := pressed && !b.wasPressed
	b.wasPressed = pressed
	if rerolled {
		b.reroll()
	}

	gen := b.torus.Generation()
	if !rerolled && gen > 0 && gen%b.opts.Cycle == 0 {
		b.sceneIdx = wrapIndex(b.sceneIdx+1, b.opts.Scenes.Len())
		name := b.load()
		b.log.Info(fmt.Sprintf("Scene: %s (gen %d)", name, gen))
		b.record(telemetry.KindCycle, 0)
	}
	return nil
}

func (b *Board) reroll() {
	seed := pcore.SeedFromTimer(b.dev.Clock.Ticks())
	b.rng.Seed(seed)
	name := b.load()
	b.torus.ResetGeneration()
	if b.view != nil {
		b.view.Reset()
	}
	b.log.Info(fmt.Sprintf("Reroll: %s (button)", name), "seed", seed)
	b.record(telemetry.KindReroll, seed)
}

// load initializes the current buffer with the current scene.
func (b *Board) load() string {
	return b.opts.Scenes.Load(b.torus.Current(), b.sceneIdx, b.rng, b.opts.Variant.Screen)
}

func (b *Board) record(kind string, seed uint32) {
	if b.recorder == nil {
		return
	}
	e := telemetry.SceneEvent{
		Time:       time.Now(),
		Kind:       kind,
		Index:      b.sceneIdx,
		Scene:      b.SceneName(),
		Generation: b.torus.Generation(),
		Seed:       seed,
		Population: b.torus.Population(),
	}
	if err := b.recorder.RecordScene(e); err != nil {
		b.log.Debug("record scene", "err", err)
	}
}

// soft swallows peripheral errors unless the bus is gone.
func (b *Board) soft(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, device.ErrBusLost) {
		return fmt.Errorf("%s: %w", what, err)
	}
	b.softErrs++
	b.log.Debug("peripheral error", "device", what, "err", err)
	return nil
}

// Run ticks at the cadence of step until ctx is cancelled or a peripheral
// bus is lost.
func (b *Board) Run(ctx context.Context, step *core.FixedStep) error {
	for {
		if err := b.Tick(); err != nil {
			return err
		}
		if err := step.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
