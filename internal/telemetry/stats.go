package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// WindowStats aggregates the population over a run of frames within one
// scene.
type WindowStats struct {
	Scene    string  `csv:"scene"`
	StartGen uint64  `csv:"start_gen"`
	EndGen   uint64  `csv:"end_gen"`
	Frames   int     `csv:"frames"`
	Mean     float64 `csv:"pop_mean"`
	StdDev   float64 `csv:"pop_std"`
	Min      int     `csv:"pop_min"`
	Max      int     `csv:"pop_max"`
	Churn    float64 `csv:"churn_mean"` // mean |population - previous|
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("scene", s.Scene),
		slog.Uint64("start_gen", s.StartGen),
		slog.Uint64("end_gen", s.EndGen),
		slog.Int("frames", s.Frames),
		slog.Float64("pop_mean", s.Mean),
		slog.Float64("pop_std", s.StdDev),
		slog.Int("pop_min", s.Min),
		slog.Int("pop_max", s.Max),
		slog.Float64("churn_mean", s.Churn),
	)
}

// Window accumulates frame samples until it holds Size frames.
type Window struct {
	Size int

	scene string
	start uint64
	end   uint64
	pops  []float64
	churn []float64
}

// NewWindow creates a window of size frames.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = 200
	}
	return &Window{
		Size:  size,
		pops:  make([]float64, 0, size),
		churn: make([]float64, 0, size),
	}
}

// Add appends s. When the window is full it returns the aggregated stats and
// starts over.
func (w *Window) Add(s FrameSample) (WindowStats, bool) {
	if len(w.pops) == 0 {
		w.scene = s.Scene
		w.start = s.Generation
	}
	w.end = s.Generation
	w.pops = append(w.pops, float64(s.Population))
	w.churn = append(w.churn, math.Abs(float64(s.Population-s.Previous)))
	if len(w.pops) < w.Size {
		return WindowStats{}, false
	}
	return w.Flush()
}

// Flush returns stats for the frames collected so far and empties the window.
// It reports false when the window is empty.
func (w *Window) Flush() (WindowStats, bool) {
	if len(w.pops) == 0 {
		return WindowStats{}, false
	}
	out := Summarize(w.pops)
	out.Scene = w.scene
	out.StartGen = w.start
	out.EndGen = w.end
	out.Churn = stat.Mean(w.churn, nil)
	w.pops = w.pops[:0]
	w.churn = w.churn[:0]
	return out, true
}

// Summarize computes population statistics over pops.
func Summarize(pops []float64) WindowStats {
	if len(pops) == 0 {
		return WindowStats{}
	}
	mean, std := stat.MeanStdDev(pops, nil)
	if math.IsNaN(std) {
		std = 0
	}
	lo, hi := pops[0], pops[0]
	for _, p := range pops[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	return WindowStats{
		Frames: len(pops),
		Mean:   mean,
		StdDev: std,
		Min:    int(lo),
		Max:    int(hi),
	}
}
