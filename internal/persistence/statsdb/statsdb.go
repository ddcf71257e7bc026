// Package statsdb indexes population history in SQLite. Writes are queued to
// a single writer goroutine and dropped when the queue is full; the tick log
// remains the source of truth.
package statsdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"automata/internal/core"
)

// Run describes one simulation run.
type Run struct {
	ID        string
	Sim       string
	Seed      int64
	Width     int
	Height    int
	Depth     int
	StartedAt time.Time
}

// Sample is one population row.
type Sample struct {
	Run  string
	Tick uint64
	core.Population
}

// DB is an asynchronous SQLite population index.
type DB struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Uint64
}

type reqKind int

const (
	reqRun reqKind = iota + 1
	reqSample
)

type req struct {
	kind   reqKind
	run    Run
	sample Sample
}

// DefaultQueue is the writer queue length used by Open.
const DefaultQueue = 16384

// Open creates or opens the database at path and starts the writer.
func Open(path string) (*DB, error) { return OpenWithQueue(path, DefaultQueue) }

// OpenWithQueue is Open with an explicit queue length.
func OpenWithQueue(path string, queue int) (*DB, error) {
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
	if queue <= 0 {
		queue = 1
	}
	s := &DB{db: db, ch: make(chan req, queue)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
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
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run TEXT PRIMARY KEY,
			sim TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS population (
			run TEXT NOT NULL,
			tick INTEGER NOT NULL,
			predators INTEGER NOT NULL,
			prey INTEGER NOT NULL,
			living INTEGER NOT NULL,
			PRIMARY KEY (run, tick)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close drains the queue and closes the database.
func (s *DB) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Dropped returns how many writes were discarded because the queue was full.
func (s *DB) Dropped() uint64 { return s.dropped.Load() }

// RecordRun queues the run row.
func (s *DB) RecordRun(r Run) { s.enqueue(req{kind: reqRun, run: r}) }

// RecordSample queues a population row.
func (s *DB) RecordSample(sample Sample) { s.enqueue(req{kind: reqSample, sample: sample}) }

func (s *DB) enqueue(r req) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

func (s *DB) loop() {
	ctx := context.Background()
	insertRun, _ := s.db.Prepare(`INSERT OR REPLACE INTO runs(run,sim,seed,width,height,depth,started_at) VALUES(?,?,?,?,?,?,?)`)
	insertSample, _ := s.db.Prepare(`INSERT OR REPLACE INTO population(run,tick,predators,prey,living) VALUES(?,?,?,?,?)`)
	defer func() {
		if insertRun != nil {
			_ = insertRun.Close()
		}
		if insertSample != nil {
			_ = insertSample.Close()
		}
	}()

	var (
		tx          *sql.Tx
		opCount     int
		lastCommit  = time.Now()
		commitEvery = 1000
		maxWait     = time.Second
	)
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		if tx == nil {
			txx, err := s.db.BeginTx(ctx, nil)
			if err != nil {
				continue
			}
			tx = txx
		}
		var err error
		switch r.kind {
		case reqRun:
			if insertRun != nil {
				_, err = tx.Stmt(insertRun).Exec(r.run.ID, r.run.Sim, r.run.Seed, r.run.Width, r.run.Height, r.run.Depth,
					r.run.StartedAt.UTC().Format(time.RFC3339Nano))
			}
		case reqSample:
			if insertSample != nil {
				_, err = tx.Stmt(insertSample).Exec(r.sample.Run, int64(r.sample.Tick),
					r.sample.Predators, r.sample.Prey, r.sample.Living)
			}
		}
		if err != nil {
			_ = tx.Rollback()
			tx = nil
			opCount = 0
			continue
		}
		opCount++
		// Commit when the queue drains so readers see recent rows.
		if opCount >= commitEvery || time.Since(lastCommit) >= maxWait || len(s.ch) == 0 {
			commit()
		}
	}
	commit()
}

// Samples returns the stored rows of run in tick order.
func (s *DB) Samples(ctx context.Context, run string) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tick,predators,prey,living FROM population WHERE run=? ORDER BY tick`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Sample
	for rows.Next() {
		smp := Sample{Run: run}
		var tick int64
		if err := rows.Scan(&tick, &smp.Predators, &smp.Prey, &smp.Living); err != nil {
			return nil, err
		}
		smp.Tick = uint64(tick)
		out = append(out, smp)
	}
	return out, rows.Err()
}
