package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"lifeboard/internal/config"
	"lifeboard/internal/device"
	"lifeboard/internal/loop"
	"lifeboard/internal/persistence/eventlog"
	"lifeboard/internal/persistence/runindex"
	"lifeboard/internal/telemetry"
	"lifeboard/internal/transport/observer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}
	cfg.SplashFrames = 0
	cfg.Seed = 7
	cfg.Observer.Listen = ""
	return cfg
}

func newRuntime(t *testing.T, cfg *config.Config) (*runtime, *device.Framebuffer) {
	t.Helper()
	fb := device.NewFramebuffer(cfg.World().Screen)
	button := &device.LatchButton{}
	dev := loop.Peripherals{Display: fb, LED: &device.MemoryLED{}, Button: button}
	rt, err := setup(cfg, dev, fb, button, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("setup() error: %v", err)
	}
	return rt, fb
}

func TestSinksRecordScenes(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.Telemetry.CSV = filepath.Join(dir, "frames.csv")
	cfg.Telemetry.Window = 50
	cfg.Events.Dir = filepath.Join(dir, "events")
	cfg.Index.Path = filepath.Join(dir, "runs.db")

	rt, _ := newRuntime(t, cfg)
	for i := 0; i < 450; i++ {
		if err := rt.board.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	events, err := eventlog.ReadEvents(cfg.Events.Dir)
	if err != nil {
		t.Fatalf("ReadEvents() error: %v", err)
	}
	kinds := []string{telemetry.KindBoot, telemetry.KindCycle, telemetry.KindCycle}
	if len(events) != len(kinds) {
		t.Fatalf("journal has %d events, want %d", len(events), len(kinds))
	}
	for i, e := range events {
		if e.Kind != kinds[i] || e.Index != i {
			t.Fatalf("event %d = %s/%d, want %s/%d", i, e.Kind, e.Index, kinds[i], i)
		}
	}

	stats, err := telemetry.ReadStats(cfg.Telemetry.CSV)
	if err != nil {
		t.Fatalf("ReadStats() error: %v", err)
	}
	if len(stats) != 9 {
		t.Fatalf("csv rows = %d, want 9", len(stats))
	}
	if stats[0].Scene != "R-pentomino + soup" || stats[4].Scene != "Gosper Gun + chaos" || stats[8].Scene != "Random soup" {
		t.Fatalf("unexpected scenes %q %q %q", stats[0].Scene, stats[4].Scene, stats[8].Scene)
	}

	idx, err := runindex.Open(cfg.Index.Path, nil)
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	defer idx.Close()
	counts, err := idx.EventCounts(context.Background())
	if err != nil {
		t.Fatalf("EventCounts() error: %v", err)
	}
	if counts[telemetry.KindBoot] != 1 || counts[telemetry.KindCycle] != 2 {
		t.Fatalf("event counts = %v", counts)
	}
	runs, err := idx.Runs(context.Background())
	if err != nil {
		t.Fatalf("Runs() error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3", len(runs))
	}
}

func TestObserverOffline(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observer.Listen = "not-an-address"
	rt, _ := newRuntime(t, cfg)
	defer rt.Close()
	if rt.status != "WiFi: offline" || rt.observer != nil {
		t.Fatalf("status = %q, observer = %v", rt.status, rt.observer)
	}
	if err := rt.board.Tick(); err != nil {
		t.Fatalf("board must keep running offline: %v", err)
	}
}

func TestObserverServesBoard(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observer.Listen = "127.0.0.1:0"
	rt, _ := newRuntime(t, cfg)
	defer rt.Close()
	if !strings.HasPrefix(rt.status, "IP: 127.0.0.1:") {
		t.Fatalf("status = %q", rt.status)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.serve(ctx) }()

	for i := 0; i < 3; i++ {
		if err := rt.board.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	resp, err := http.Get("http://" + rt.listener.Addr().String() + "/v1/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	var got observer.Status
	err = json.NewDecoder(resp.Body).Decode(&got)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Generation != 2 || got.Scene != "R-pentomino + soup" || got.Status != rt.status {
		t.Fatalf("status = %+v", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve() = %v", err)
	}
}
