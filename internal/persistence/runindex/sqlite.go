// Package runindex keeps a queryable SQLite index of scene loads and how each
// scene run went.
package runindex

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"lifeboard/internal/telemetry"
)

// Run summarises one scene from its load until the next load.
type Run struct {
	Kind       string
	Index      int
	Scene      string
	Seed       uint32
	StartedAt  time.Time
	StartGen   uint64
	EndGen     uint64
	Frames     int
	Peak       int
	Final      int
	Extinct    bool
	FirstPop   int
	RecordedAt time.Time
}

// Index is a telemetry.Recorder backed by SQLite. Writes happen on a
// background goroutine; when it falls behind rows are dropped instead of
// stalling the frame loop.
type Index struct {
	db  *sql.DB
	log *slog.Logger

	insertEvent *sql.Stmt
	insertRun   *sql.Stmt

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64

	// Run accumulation happens on the caller's goroutine.
	cur     *Run
	running bool
}

type reqKind int

const (
	reqEvent reqKind = iota + 1
	reqRun
)

type req struct {
	kind  reqKind
	event telemetry.SceneEvent
	run   Run
}

// Open opens or creates the index at path. Write failures are logged to
// logger, or to slog.Default when logger is nil.
func Open(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	idx := &Index{
		db:  db,
		log: logger,
		ch:  make(chan req, 1024),
	}
	if err := idx.prepare(); err != nil {
		idx.closeStmts()
		_ = db.Close()
		return nil, err
	}
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		idx.loop()
	}()
	return idx, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS scene_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			scene_index INTEGER NOT NULL,
			scene TEXT NOT NULL,
			generation INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			population INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			scene_index INTEGER NOT NULL,
			scene TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			start_gen INTEGER NOT NULL,
			end_gen INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			first_pop INTEGER NOT NULL,
			peak INTEGER NOT NULL,
			final INTEGER NOT NULL,
			extinct INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_scene ON runs(scene);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordFrame folds s into the current run.
func (x *Index) RecordFrame(s telemetry.FrameSample) error {
	if x == nil || x.cur == nil {
		return nil
	}
	r := x.cur
	if !x.running {
		r.FirstPop = s.Population
		r.StartGen = s.Generation
		x.running = true
	}
	r.Frames++
	r.EndGen = s.Generation
	r.Final = s.Population
	r.Peak = max(r.Peak, s.Population)
	return nil
}

// RecordScene stores e and closes the previous run.
func (x *Index) RecordScene(e telemetry.SceneEvent) error {
	if x == nil || x.closed.Load() {
		return nil
	}
	x.finishRun()
	x.enqueue(req{kind: reqEvent, event: e})
	x.cur = &Run{
		Kind:      e.Kind,
		Index:     e.Index,
		Scene:     e.Scene,
		Seed:      e.Seed,
		StartedAt: e.Time,
		StartGen:  e.Generation,
		EndGen:    e.Generation,
	}
	x.running = false
	return nil
}

func (x *Index) finishRun() {
	if x.cur == nil {
		return
	}
	r := *x.cur
	r.Extinct = x.running && r.Final == 0
	r.RecordedAt = time.Now().UTC()
	x.cur = nil
	x.enqueue(req{kind: reqRun, run: r})
}

func (x *Index) enqueue(r req) {
	select {
	case x.ch <- r:
	default:
		// Drop if the writer falls behind; the JSONL journal stays complete.
		x.dropped.Add(1)
	}
}

// Dropped returns how many rows were discarded, either because the writer was
// busy or because the write failed.
func (x *Index) Dropped() uint64 {
	if x == nil {
		return 0
	}
	return x.dropped.Load()
}

// Close records the open run, drains pending writes and closes the database.
func (x *Index) Close() error {
	if x == nil {
		return nil
	}
	var err error
	x.once.Do(func() {
		x.finishRun()
		x.closed.Store(true)
		close(x.ch)
		x.wg.Wait()
		err = x.db.Close()
	})
	return err
}

func (x *Index) prepare() error {
	var err error
	x.insertEvent, err = x.db.Prepare(`INSERT INTO scene_events(at,kind,scene_index,scene,generation,seed,population) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare scene_events insert: %w", err)
	}
	x.insertRun, err = x.db.Prepare(`INSERT INTO runs(kind,scene_index,scene,seed,started_at,start_gen,end_gen,frames,first_pop,peak,final,extinct,recorded_at) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare runs insert: %w", err)
	}
	return nil
}

func (x *Index) closeStmts() {
	if x.insertEvent != nil {
		_ = x.insertEvent.Close()
	}
	if x.insertRun != nil {
		_ = x.insertRun.Close()
	}
}

func (x *Index) loop() {
	ctx := context.Background()
	defer x.closeStmts()

	for r := range x.ch {
		var err error
		switch r.kind {
		case reqEvent:
			e := r.event
			_, err = x.insertEvent.ExecContext(ctx,
				e.Time.UTC().Format(time.RFC3339Nano), e.Kind, e.Index, e.Scene,
				int64(e.Generation), int64(e.Seed), e.Population)
			if err != nil {
				x.log.Warn("run index write failed", "table", "scene_events", "kind", e.Kind, "scene", e.Scene, "err", err)
			}
		case reqRun:
			run := r.run
			_, err = x.insertRun.ExecContext(ctx,
				run.Kind, run.Index, run.Scene, int64(run.Seed),
				run.StartedAt.UTC().Format(time.RFC3339Nano),
				int64(run.StartGen), int64(run.EndGen), run.Frames, run.FirstPop,
				run.Peak, run.Final, run.Extinct,
				run.RecordedAt.Format(time.RFC3339Nano))
			if err != nil {
				x.log.Warn("run index write failed", "table", "runs", "kind", run.Kind, "scene", run.Scene, "err", err)
			}
		}
		if err != nil {
			x.dropped.Add(1)
		}
	}
}

// Runs returns every recorded run in insertion order.
func (x *Index) Runs(ctx context.Context) ([]Run, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT kind,scene_index,scene,seed,started_at,start_gen,end_gen,frames,first_pop,peak,final,extinct,recorded_at FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var (
			r                 Run
			seed              int64
			startGen, endGen  int64
			started, recorded string
		)
		if err := rows.Scan(&r.Kind, &r.Index, &r.Scene, &seed, &started, &startGen, &endGen,
			&r.Frames, &r.FirstPop, &r.Peak, &r.Final, &r.Extinct, &recorded); err != nil {
			return nil, err
		}
		r.Seed = uint32(seed)
		r.StartGen, r.EndGen = uint64(startGen), uint64(endGen)
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
		out = append(out, r)
	}
	return out, rows.Err()
}

// EventCounts returns how many scene events of each kind were recorded.
func (x *Index) EventCounts(ctx context.Context) (map[string]int, error) {
	rows, err := x.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM scene_events GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[kind] = n
	}
	return out, rows.Err()
}
