// Package eventlog journals scene loads as zstd-compressed JSON lines. Each
// board run gets its own file, named after the run's first event.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"lifeboard/internal/telemetry"
)

// Entry is one journal line: a scene event and its position within the run.
type Entry struct {
	Seq int `json:"seq"`
	telemetry.SceneEvent
}

// runStamp names a run file. It sorts lexically in time order.
const runStamp = "20060102T150405.000Z"

// SceneLog is a telemetry.Recorder that journals scene events to
// scenes-<start>.jsonl.zst under its directory. Frame samples are not
// journaled.
type SceneLog struct {
	dir string

	mu   sync.Mutex
	seq  int
	path string
	f    *os.File
	enc  *zstd.Encoder
	w    *bufio.Writer
}

// NewSceneLog journals under dir. The run file is created on the first scene
// event. It returns nil when dir is empty; a nil SceneLog is a valid no-op.
func NewSceneLog(dir string) *SceneLog {
	if dir == "" {
		return nil
	}
	return &SceneLog{dir: dir}
}

// Path returns the run file, or "" before the first event.
func (l *SceneLog) Path() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

func (l *SceneLog) RecordFrame(telemetry.FrameSample) error { return nil }

// RecordScene appends e to the run file and flushes it, so a power cut loses
// at most the event being written.
func (l *SceneLog) RecordScene(e telemetry.SceneEvent) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		if err := l.openLocked(e.Time); err != nil {
			return err
		}
	}
	b, err := json.Marshal(Entry{Seq: l.seq, SceneEvent: e})
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := l.w.Flush(); err != nil {
		return err
	}
	l.seq++
	return l.enc.Flush()
}

func (l *SceneLog) openLocked(start time.Time) error {
	if start.IsZero() {
		start = time.Now()
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(l.dir, fmt.Sprintf("scenes-%s.jsonl.zst", start.UTC().Format(runStamp)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.path = path
	l.f = f
	l.enc = enc
	l.w = bufio.NewWriterSize(enc, 4*1024)
	return nil
}

// Close finishes the zstd stream and closes the run file.
func (l *SceneLog) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.w != nil {
		err = l.w.Flush()
		l.w = nil
	}
	if l.enc != nil {
		err = errors.Join(err, l.enc.Close())
		l.enc = nil
	}
	if l.f != nil {
		err = errors.Join(err, l.f.Close())
		l.f = nil
	}
	return err
}

// ReadEvents decodes every scene event journaled under dir, oldest run first.
func ReadEvents(dir string) ([]telemetry.SceneEvent, error) {
	runs, err := ReadRuns(dir)
	if err != nil {
		return nil, err
	}
	var out []telemetry.SceneEvent
	for _, run := range runs {
		for _, e := range run {
			out = append(out, e.SceneEvent)
		}
	}
	return out, nil
}

// ReadRuns decodes the journal under dir, one slice per run file, oldest first.
func ReadRuns(dir string) ([][]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "scenes-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out [][]Entry
	for _, p := range paths {
		entries, err := readFile(p)
		if err != nil {
			return out, fmt.Errorf("reading %s: %w", filepath.Base(p), err)
		}
		out = append(out, entries)
	}
	return out, nil
}

func readFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	jd := json.NewDecoder(dec)
	for {
		var e Entry
		if err := jd.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, e)
	}
}
