// Package engine provides the embedded, query-side interface of the comparator.
//
// It loads a season table, runs the PCA pipeline once, and serves every
// subsequent query from an immutable Snapshot. Fitted snapshots are cached by
// the content hash of the raw dataset, so reloading an unchanged file is
// free. A snapshot is only replaced on an explicit Reload or Load.
//
// Basic usage:
//
//	opts := engine.DefaultOptions("./player_stats_processed.csv")
//	eng, err := engine.Open(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	report, err := eng.Neighbors("Kylian Mbappé", 5)
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nico916/football-comparator/pkg/metrics"
	"github.com/nico916/football-comparator/pkg/pca"
	"github.com/nico916/football-comparator/pkg/roster"
)

// ErrNotLoaded is returned by queries issued before any dataset was loaded.
var ErrNotLoaded = errors.New("engine: no dataset loaded")

// Options configures the Engine.
type Options struct {
	// DatasetPath is the CSV file read by Open and Reload.
	DatasetPath string

	// Load describes the CSV layout.
	Load roster.LoadOptions

	// Model tunes the PCA fit.
	Model pca.Options

	// NeighborCount is the k used when a query passes k <= 0.
	NeighborCount int

	// CacheSize is the number of fitted snapshots kept, keyed by dataset content.
	CacheSize int
}

// DefaultOptions returns a standard configuration.
//
// Defaults:
//   - Load: semicolon separated, "Player"/"Pos" columns, numeric columns auto-detected
//   - Model: at most pca.DefaultMaxAttributes attributes
//   - NeighborCount: 5
//   - CacheSize: 4
func DefaultOptions(datasetPath string) Options {
	return Options{
		DatasetPath:   datasetPath,
		Load:          roster.DefaultLoadOptions(),
		Model:         pca.Options{MaxAttributes: pca.DefaultMaxAttributes},
		NeighborCount: 5,
		CacheSize:     4,
	}
}

// Engine owns the active snapshot and the snapshot cache.
//
// Readers never block: the active snapshot is swapped atomically and is
// immutable. Loads are serialized among themselves.
type Engine struct {
	opts Options

	current atomic.Pointer[Snapshot]
	cache   *lru.Cache[uint64, *Snapshot]

	// loadMu serializes Load/Reload so two fits of the same content do not race.
	loadMu sync.Mutex

	closeOnce sync.Once
}

// New creates an Engine with no dataset loaded.
func New(opts Options) (*Engine, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[uint64, *Snapshot](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	if opts.NeighborCount <= 0 {
		opts.NeighborCount = 5
	}
	return &Engine{opts: opts, cache: cache}, nil
}

// Open creates an Engine and loads opts.DatasetPath. It fails if the dataset
// cannot be read or fitted, including when a column has zero variance
// (pca.ErrDegenerateColumn): there is no valid projection to serve.
func Open(opts Options) (*Engine, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	if _, err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload re-reads the dataset file and activates its snapshot. When the
// load fails, the previous snapshot stays active.
func (e *Engine) Reload() (*Snapshot, error) {
	if e.opts.DatasetPath == "" {
		return nil, fmt.Errorf("engine: dataset path is not configured")
	}
	data, err := os.ReadFile(e.opts.DatasetPath)
	if err != nil {
		metrics.ModelFitsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("could not read dataset '%s': %w", e.opts.DatasetPath, err)
	}
	return e.Load(data)
}

// Load fits raw CSV bytes and activates the resulting snapshot. Content that
// was fitted before is served from the cache.
func (e *Engine) Load(data []byte) (*Snapshot, error) {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	key := xxhash.Sum64(data)
	if snap, ok := e.cache.Get(key); ok {
		metrics.ModelFitsTotal.WithLabelValues("cached").Inc()
		e.activate(snap)
		slog.Info("Dataset unchanged, reusing fitted snapshot", "key", snap.Key)
		return snap, nil
	}

	start := time.Now()
	snap, err := buildSnapshot(data, e.opts)
	if err != nil {
		metrics.ModelFitsTotal.WithLabelValues("error").Inc()
		slog.Error("Dataset load failed", "error", err)
		return nil, fmt.Errorf("dataset load failed: %w", err)
	}
	snap.Key = strconv.FormatUint(key, 16)
	elapsed := time.Since(start)

	metrics.ModelFitsTotal.WithLabelValues("ok").Inc()
	metrics.ModelFitDuration.Observe(elapsed.Seconds())

	e.cache.Add(key, snap)
	e.activate(snap)

	slog.Info("Dataset fitted",
		"key", snap.Key,
		"players", len(snap.Players),
		"attributes", len(snap.Attributes),
		"duration", elapsed.String(),
	)
	return snap, nil
}

func (e *Engine) activate(snap *Snapshot) {
	e.current.Store(snap)
	metrics.PlayersLoaded.Set(float64(len(snap.Players)))
	metrics.AttributesLoaded.Set(float64(len(snap.Attributes)))
}

// Snapshot returns the active snapshot, or nil before the first load.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Neighbors runs the two neighbor queries for name against the active
// snapshot: the whole population and the players sharing its position.
// k <= 0 uses Options.NeighborCount. An unknown name is not an error; the
// report has Found == false and empty lists.
func (e *Engine) Neighbors(name string, k int) (NeighborReport, error) {
	snap := e.Snapshot()
	if snap == nil {
		return NeighborReport{}, ErrNotLoaded
	}
	if k <= 0 {
		k = e.opts.NeighborCount
	}
	report := snap.Neighbors(name, k)
	metrics.NeighborQueriesTotal.WithLabelValues("global").Inc()
	if report.Found {
		metrics.NeighborQueriesTotal.WithLabelValues("position").Inc()
	}
	return report, nil
}

// Options returns the options the Engine was created with.
func (e *Engine) Options() Options { return e.opts }

// Close drops cached snapshots. The active snapshot stays readable by
// callers still holding it.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.cache.Purge()
	})
	return nil
}
