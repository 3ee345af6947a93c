package output

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/notargets/hydro1d/solver"
)

const DefaultStorePath = "hydro1d.db"

var (
	ErrNoRun       = errors.New("output: no run in progress")
	ErrRunNotFound = errors.New("output: run not found")
)

const (
	RunRunning  = "running"
	RunFinished = "finished"
	RunFailed   = "failed"
)

// RunMetadata describes one archived simulation.
type RunMetadata struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Case       string    `json:"case"`
	Physics    string    `json:"physics"`
	Integrator string    `json:"integrator"`
	Flux       string    `json:"flux"`
	Cells      int       `json:"cells"`
	XMin       float64   `json:"xmin"`
	XMax       float64   `json:"xmax"`
	CFL        float64   `json:"cfl"`
	FinalTime  float64   `json:"final_time"`
	Started    time.Time `json:"started"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	Snapshots  int       `json:"snapshots"`
}

type snapshotRecord struct {
	X              []float64   `json:"x"`
	PrimitiveNames []string    `json:"primitive_names"`
	ConservedNames []string    `json:"conserved_names"`
	Prim           [][]float64 `json:"prim"`
	Cons           [][]float64 `json:"cons"`
}

// Store archives runs and their snapshots in a SQLite database. It is a
// solver.Observer for the run started by BeginRun.
type Store struct {
	db    *sql.DB
	mu    sync.Mutex
	path  string
	run   *RunMetadata
	count int
}

func OpenStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultStorePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started TEXT NOT NULL,
			meta BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			time REAL NOT NULL,
			iteration INTEGER NOT NULL,
			dt REAL NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
	} {
		if _, err = db.Exec(ddl); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new run and returns its id. Snapshots received after
// this call belong to it.
func (s *Store) BeginRun(meta RunMetadata) (id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta.ID = uuid.NewString()
	if meta.Started.IsZero() {
		meta.Started = time.Now().UTC()
	}
	meta.Status = RunRunning
	meta.Snapshots = 0
	if err = s.putRun(&meta); err != nil {
		return
	}
	s.run = &meta
	s.count = 0
	return meta.ID, nil
}

func (s *Store) putRun(meta *RunMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO runs (id, started, meta) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET meta = excluded.meta`,
		meta.ID, meta.Started.Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("store run %s: %w", meta.ID, err)
	}
	return nil
}

func (s *Store) OnSnapshot(snap *solver.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return ErrNoRun
	}
	data, err := json.Marshal(snapshotRecord{
		X:              snap.X,
		PrimitiveNames: snap.PrimitiveNames,
		ConservedNames: snap.ConservedNames,
		Prim:           rows(snap.Prim),
		Cons:           rows(snap.Cons),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot at t = %g: %w", snap.Time, err)
	}
	_, err = s.db.Exec(`INSERT INTO snapshots (run_id, seq, time, iteration, dt, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		s.run.ID, s.count, snap.Time, snap.Iteration, snap.Dt, data)
	if err != nil {
		return fmt.Errorf("store snapshot %d of run %s: %w", s.count, s.run.ID, err)
	}
	s.count++
	s.run.Snapshots = s.count
	return nil
}

// FinishRun closes the current run with a status and optional message.
func (s *Store) FinishRun(status, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return ErrNoRun
	}
	s.run.Status = status
	s.run.Message = message
	err := s.putRun(s.run)
	s.run = nil
	return err
}

// Runs lists archived runs, oldest first.
func (s *Store) Runs() (runs []RunMetadata, err error) {
	rs, err := s.db.Query(`SELECT meta FROM runs ORDER BY started, id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rs.Close() }()
	for rs.Next() {
		var (
			data []byte
			meta RunMetadata
		)
		if err = rs.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err = json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("decode run: %w", err)
		}
		runs = append(runs, meta)
	}
	return runs, rs.Err()
}

// Run looks up one run. A unique id prefix is accepted.
func (s *Store) Run(id string) (meta RunMetadata, err error) {
	var runs []RunMetadata
	if runs, err = s.Runs(); err != nil {
		return
	}
	var found int
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
		if len(id) > 0 && len(r.ID) >= len(id) && r.ID[:len(id)] == id {
			meta = r
			found++
		}
	}
	if found != 1 {
		err = fmt.Errorf("%w: %q matches %d runs", ErrRunNotFound, id, found)
	}
	return
}

// Snapshots returns the archived snapshots of a run in the order they were
// taken.
func (s *Store) Snapshots(runID string) (snaps []*solver.Snapshot, err error) {
	rs, err := s.db.Query(`SELECT time, iteration, dt, payload FROM snapshots WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("select snapshots: %w", err)
	}
	defer func() { _ = rs.Close() }()
	for rs.Next() {
		var (
			snap = &solver.Snapshot{}
			data []byte
			rec  snapshotRecord
		)
		if err = rs.Scan(&snap.Time, &snap.Iteration, &snap.Dt, &data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err = json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		snap.X = rec.X
		snap.PrimitiveNames = rec.PrimitiveNames
		snap.ConservedNames = rec.ConservedNames
		snap.Prim = dense(rec.Prim)
		snap.Cons = dense(rec.Cons)
		snaps = append(snaps, snap)
	}
	if err = rs.Err(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: no snapshots for %q", ErrRunNotFound, runID)
	}
	return
}

func rows(m *mat.Dense) (r [][]float64) {
	nr, _ := m.Dims()
	r = make([][]float64, nr)
	for i := range r {
		r[i] = mat.Row(nil, i, m)
	}
	return
}

func dense(r [][]float64) *mat.Dense {
	if len(r) == 0 || len(r[0]) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(r), len(r[0]), nil)
	for i, row := range r {
		m.SetRow(i, row)
	}
	return m
}
