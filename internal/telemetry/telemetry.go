// Package telemetry records per-frame colony health and scene changes.
package telemetry

import (
	"errors"
	"log/slog"
	"time"
)

// FrameSample is the state of one rendered frame, taken before the step.
type FrameSample struct {
	Generation uint64 `csv:"generation"`
	SceneIndex int    `csv:"scene_index"`
	Scene      string `csv:"scene"`
	Population int    `csv:"population"`
	Previous   int    `csv:"previous"`
	Hue        uint8  `csv:"hue"`
	Val        uint8  `csv:"val"`
	ViewX      int    `csv:"view_x"`
	ViewY      int    `csv:"view_y"`
}

// Scene event kinds.
const (
	KindBoot   = "boot"
	KindCycle  = "cycle"
	KindReroll = "reroll"
)

// SceneEvent describes a scene load.
type SceneEvent struct {
	Time       time.Time `json:"time"`
	Kind       string    `json:"kind"`
	Index      int       `json:"index"`
	Scene      string    `json:"scene"`
	Generation uint64    `json:"generation"`
	Seed       uint32    `json:"seed"`
	Population int       `json:"population"`
}

// LogValue implements slog.LogValuer for structured logging.
func (e SceneEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind),
		slog.Int("index", e.Index),
		slog.String("scene", e.Scene),
		slog.Uint64("generation", e.Generation),
		slog.Uint64("seed", uint64(e.Seed)),
		slog.Int("population", e.Population),
	)
}

// Recorder is a sink for frame samples and scene events. Implementations must
// not block the frame loop for long.
type Recorder interface {
	RecordFrame(FrameSample) error
	RecordScene(SceneEvent) error
	Close() error
}

// Multi fans out to several recorders. Nil entries are skipped.
type Multi []Recorder

// RecordFrame forwards s to every recorder and joins their errors.
func (m Multi) RecordFrame(s FrameSample) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.RecordFrame(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordScene forwards e to every recorder and joins their errors.
func (m Multi) RecordScene(e SceneEvent) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.RecordScene(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every recorder and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
