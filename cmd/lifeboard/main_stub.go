//go:build !ebiten

// Command lifeboard runs the board headless: the framebuffer is served by the
// frame observer and SIGUSR1 presses the button.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"lifeboard/internal/config"
	"lifeboard/internal/core"
	"lifeboard/internal/device"
	"lifeboard/internal/loop"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fb := device.NewFramebuffer(cfg.World().Screen)
	button := &device.LatchButton{}
	dev := loop.Peripherals{Display: fb, LED: &device.MemoryLED{}, Button: button}
	rt, err := setup(cfg, dev, fb, button, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		notifyButton(gctx, button)
		return nil
	})
	g.Go(func() error {
		defer stop()
		return rt.board.Run(gctx, core.NewFixedStep(cfg.Hz))
	})
	g.Go(func() error { return rt.serve(gctx) })

	runErr := g.Wait()
	if err := rt.Close(); err != nil {
		logger.Warn("closing sinks", "err", err)
	}
	if runErr != nil {
		logger.Error("board stopped", "err", runErr)
		os.Exit(1)
	}
}
