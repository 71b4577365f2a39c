//go:build ebiten

// Command lifeboard runs the board in a desktop window: the framebuffer is
// drawn scaled up beside a status panel and Space presses the button.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"lifeboard/internal/app"
	"lifeboard/internal/config"
	"lifeboard/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var flags config.Flags
	flags.Bind(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	world := cfg.World()
	dev, fb, led, button := app.Peripherals(world.Screen)
	rt, err := setup(cfg, dev, fb, button, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := rt.serve(ctx); err != nil {
			logger.Warn("observer stopped", "err", err)
		}
	}()

	game := app.New(rt.board, fb, led, button, scene.Default().Len(), cfg.Hz, cfg.Emulator.Scale, cfg.Emulator.HUDWidth)
	ebiten.SetWindowTitle("lifeboard - " + world.Name)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)

	runErr := ebiten.RunGame(game)
	cancel()
	if err := rt.Close(); err != nil {
		logger.Warn("closing sinks", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		logger.Error("board stopped", "err", runErr)
		os.Exit(1)
	}
}
