package telemetry

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Frames != 8 || s.Mean != 5 || s.Min != 2 || s.Max != 9 {
		t.Fatalf("Summarize() = %+v", s)
	}
	// Sample standard deviation of the classic example set.
	if math.Abs(s.StdDev-2.138) > 0.001 {
		t.Fatalf("StdDev = %.4f", s.StdDev)
	}
	if one := Summarize([]float64{3}); one.StdDev != 0 || one.Mean != 3 {
		t.Fatalf("single sample = %+v", one)
	}
}

func TestWindowCompletesAtSize(t *testing.T) {
	w := NewWindow(3)
	for gen := uint64(0); gen < 2; gen++ {
		if _, ok := w.Add(FrameSample{Generation: gen, Scene: "Armada", Population: 10, Previous: 10}); ok {
			t.Fatal("window completed early")
		}
	}
	stats, ok := w.Add(FrameSample{Generation: 2, Scene: "Armada", Population: 16, Previous: 10})
	if !ok {
		t.Fatal("window did not complete")
	}
	if stats.Scene != "Armada" || stats.StartGen != 0 || stats.EndGen != 2 || stats.Frames != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.Churn != 2 {
		t.Fatalf("Churn = %v, want 2", stats.Churn)
	}
	if _, ok := w.Flush(); ok {
		t.Fatal("window should be empty after completing")
	}
}

func TestCSVRecorderWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "windows.csv")
	rec, err := NewCSVRecorder(path, 2, quietLogger())
	if err != nil {
		t.Fatalf("NewCSVRecorder() error: %v", err)
	}
	for gen := uint64(0); gen < 5; gen++ {
		if err := rec.RecordFrame(FrameSample{Generation: gen, Scene: "Random soup", Population: int(gen)}); err != nil {
			t.Fatalf("RecordFrame() error: %v", err)
		}
	}
	// Scene change flushes the partial third window.
	if err := rec.RecordScene(SceneEvent{Kind: KindCycle, Scene: "Armada"}); err != nil {
		t.Fatalf("RecordScene() error: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "scene,start_gen"); n != 1 {
		t.Fatalf("header written %d times", n)
	}
	rows, err := ReadStats(path)
	if err != nil {
		t.Fatalf("ReadStats() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[2].Frames != 1 || rows[2].StartGen != 4 {
		t.Fatalf("partial window = %+v", rows[2])
	}
}

func TestNilCSVRecorderIsNoop(t *testing.T) {
	rec, err := NewCSVRecorder("", 10, nil)
	if err != nil || rec != nil {
		t.Fatalf("NewCSVRecorder(\"\") = %v, %v", rec, err)
	}
	if err := rec.RecordFrame(FrameSample{}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
}

type failing struct{ err error }

func (f failing) RecordFrame(FrameSample) error { return f.err }
func (f failing) RecordScene(SceneEvent) error  { return f.err }
func (f failing) Close() error                  { return nil }

func TestMultiJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	m := Multi{nil, failing{}, failing{err: boom}}
	if err := m.RecordFrame(FrameSample{}); !errors.Is(err, boom) {
		t.Fatalf("RecordFrame() = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}
