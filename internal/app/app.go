//go:build ebiten

package app

import (
	"image/color"

	"lifeboard/internal/core"
	"lifeboard/internal/device"
	"lifeboard/internal/loop"
	"lifeboard/internal/render"
	"lifeboard/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a board to the ebiten.Game interface. The board draws into fb;
// the window shows its front buffer scaled up with the side panel beside it.
type Game struct {
	board   *loop.Board
	fb      *device.Framebuffer
	led     *device.MemoryLED
	button  *device.LatchButton
	front   *core.ByteGrid
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	step    *core.FixedStep
	scenes  int

	onColor  color.Color
	offColor color.Color

	scale    int
	paused   bool
	tickOnce bool
}

// Peripherals returns the emulated devices for a board of the given screen
// size.
func Peripherals(screen core.Size) (loop.Peripherals, *device.Framebuffer, *device.MemoryLED, *device.LatchButton) {
	fb := device.NewFramebuffer(screen)
	led := &device.MemoryLED{}
	button := &device.LatchButton{}
	return loop.Peripherals{Display: fb, LED: led, Button: button}, fb, led, button
}

// New constructs a Game for a board wired to the devices from Peripherals.
// The board ticks hz times per second independently of the ebiten TPS.
func New(board *loop.Board, fb *device.Framebuffer, led *device.MemoryLED, button *device.LatchButton, scenes, hz, scale, hudWidth int) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := fb.Size()
	return &Game{
		board:    board,
		fb:       fb,
		led:      led,
		button:   button,
		front:    core.NewByteGrid(size.W, size.H),
		painter:  render.NewGridPainter(size.W, size.H),
		hud:      ui.NewHUD(hudWidth),
		overlay:  ui.NewOverlay(board.Torus().Size(), size, max(hudWidth-24, 16)),
		step:     core.NewFixedStep(hz),
		scenes:   scenes,
		onColor:  color.RGBA{R: 150, G: 220, B: 255, A: 255},
		offColor: color.Black,
		scale:    scale,
	}
}

// Update handles input and advances the board by one frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.button.Press()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	g.overlay.Update()

	if (!g.paused && g.step.ShouldStep()) || g.tickOnce {
		g.tickOnce = false
		if err := g.board.Tick(); err != nil {
			return err
		}
	}

	led, _ := g.led.Color()
	ox, oy := g.board.Origin()
	g.hud.Update(ui.BoardState{
		Scene:      g.board.SceneName(),
		SceneIndex: g.board.SceneIndex(),
		Scenes:     g.scenes,
		Generation: g.board.Generation(),
		Population: g.board.Torus().Population(),
		LED:        led,
		ViewX:      ox,
		ViewY:      oy,
		Paused:     g.paused,
	})
	return nil
}

// Draw renders the last flushed frame, the side panel and the minimap.
func (g *Game) Draw(screen *ebiten.Image) {
	g.fb.CopyFront(g.front)
	g.painter.Blit(screen, g.front.Cells(), g.onColor, g.offColor, g.scale, 0, 0)

	size := g.fb.Size()
	panelX := size.W * g.scale
	g.hud.Draw(screen, panelX, g.height())
	if !g.board.Splashing() {
		ox, oy := g.board.Origin()
		g.overlay.Draw(screen, g.board.Torus().Current(), ox, oy, panelX+12, g.height()-g.overlay.Height()-96)
	}
}

func (g *Game) height() int {
	return max(g.fb.Size().H*g.scale, 320)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Size().W*g.scale + g.hud.Width(), g.height()
}
