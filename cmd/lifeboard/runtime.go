package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"lifeboard/internal/config"
	"lifeboard/internal/loop"
	"lifeboard/internal/persistence/eventlog"
	"lifeboard/internal/persistence/runindex"
	"lifeboard/internal/telemetry"
	"lifeboard/internal/transport/observer"
)

// runtime is the board plus its optional sinks and network observer.
type runtime struct {
	cfg      *config.Config
	log      *slog.Logger
	board    *loop.Board
	recorder telemetry.Recorder
	observer *observer.Server
	listener net.Listener
	status   string
}

// setup builds the board for cfg and opens every configured sink. The
// observer listen failure is not fatal; it only changes the status line.
func setup(cfg *config.Config, dev loop.Peripherals, frames observer.FrameSource, button observer.Presser, logger *slog.Logger) (*runtime, error) {
	rt := &runtime{cfg: cfg, log: logger}

	csv, err := telemetry.NewCSVRecorder(cfg.Telemetry.CSV, cfg.Telemetry.Window, logger)
	if err != nil {
		return nil, err
	}
	var index *runindex.Index
	if cfg.Index.Path != "" {
		if index, err = runindex.Open(cfg.Index.Path, logger); err != nil {
			_ = csv.Close()
			return nil, fmt.Errorf("opening run index: %w", err)
		}
	}
	rt.recorder = telemetry.Multi{csv, eventlog.NewSceneLog(cfg.Events.Dir), index}

	rt.board = loop.NewBoard(loop.Options{
		Variant:      cfg.World(),
		Cycle:        cfg.Cycle,
		StartScene:   cfg.StartScene,
		SplashFrames: cfg.SplashFrames,
		Seed:         cfg.Seed,
		LingerMin:    cfg.Viewport.LingerMin,
		LingerMax:    cfg.Viewport.LingerMax,
	}, dev, logger)
	rt.board.SetRecorder(rt.recorder)

	rt.status = "WiFi: offline"
	if cfg.Observer.Listen != "" {
		rt.startObserver(frames, button)
	}
	rt.board.SetStatus("lifeboard", cfg.World().Name, rt.status)
	return rt, nil
}

func (rt *runtime) startObserver(frames observer.FrameSource, button observer.Presser) {
	srv, err := observer.NewServer(frames, rt.log)
	if err != nil {
		rt.log.Warn("observer disabled", "err", err)
		return
	}
	ln, err := net.Listen("tcp", rt.cfg.Observer.Listen)
	if err != nil {
		rt.log.Warn("observer listen failed", "addr", rt.cfg.Observer.Listen, "err", err)
		_ = srv.Close()
		return
	}
	rt.status = "IP: " + ln.Addr().String()
	srv.SetStatus(rt.status)
	srv.SetButton(button)
	rt.observer = srv
	rt.listener = ln
	rt.board.SetPublisher(srv)
	rt.log.Info("observer listening", "addr", ln.Addr().String())
}

// serve runs the observer HTTP server until ctx is done.
func (rt *runtime) serve(ctx context.Context) error {
	if rt.listener == nil {
		return nil
	}
	hs := &http.Server{
		Handler:           rt.observer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hs.Serve(rt.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("observer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close flushes and closes the sinks and the observer.
func (rt *runtime) Close() error {
	var errs []error
	if rt.observer != nil {
		errs = append(errs, rt.observer.Close())
	}
	errs = append(errs, rt.recorder.Close())
	return errors.Join(errs...)
}
