package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CSVRecorder writes one WindowStats row per completed window. A scene change
// closes the current window early so every row covers a single scene.
type CSVRecorder struct {
	file          *os.File
	window        *Window
	logger        *slog.Logger
	headerWritten bool
}

// NewCSVRecorder creates the CSV file at path. It returns nil when path is
// empty (recording disabled); a nil recorder is a valid no-op.
func NewCSVRecorder(path string, frames int, logger *slog.Logger) (*CSVRecorder, error) {
	if path == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &CSVRecorder{file: f, window: NewWindow(frames), logger: logger}, nil
}

// RecordFrame adds s to the current window.
func (r *CSVRecorder) RecordFrame(s FrameSample) error {
	if r == nil {
		return nil
	}
	if stats, ok := r.window.Add(s); ok {
		return r.write(stats)
	}
	return nil
}

// RecordScene closes the window of the previous scene.
func (r *CSVRecorder) RecordScene(SceneEvent) error {
	if r == nil {
		return nil
	}
	if stats, ok := r.window.Flush(); ok {
		return r.write(stats)
	}
	return nil
}

func (r *CSVRecorder) write(stats WindowStats) error {
	r.logger.Debug("window", "stats", stats)
	records := []WindowStats{stats}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Close writes any partial window and closes the file.
func (r *CSVRecorder) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	if stats, ok := r.window.Flush(); ok {
		firstErr = r.write(stats)
	}
	if err := r.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ReadStats loads every row written by a CSVRecorder.
func ReadStats(path string) ([]WindowStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry: %w", err)
	}
	defer f.Close()
	var rows []WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return rows, nil
}
