package smtgo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/internal/modelstore"
	"github.com/hupe1980/smtgo/internal/resource"
	"github.com/hupe1980/smtgo/internal/search"
	"github.com/hupe1980/smtgo/internal/session"
)

// State is the lifecycle state of an Engine.
type State int32

// Engine states. Transitions are Uninitialized -> Ready -> Disposed, or
// Uninitialized -> Disposed.
const (
	Uninitialized State = iota
	Ready
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Disposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// snapshot is the loaded model plus the searcher bound to it. The engine
// holds one reference; each in-flight operation holds another.
type snapshot struct {
	refs     atomic.Int64
	model    *modelstore.Model
	searcher Searcher
	logger   *Logger
}

func newSnapshot(m *modelstore.Model, s Searcher, logger *Logger) *snapshot {
	snap := &snapshot{model: m, searcher: s, logger: logger}
	snap.refs.Store(1)
	return snap
}

// tryIncRef returns false once the snapshot has been released.
func (s *snapshot) tryIncRef() bool {
	for {
		refs := s.refs.Load()
		if refs <= 0 {
			return false
		}
		if s.refs.CompareAndSwap(refs, refs+1) {
			return true
		}
	}
}

func (s *snapshot) decRef() {
	if s.refs.Add(-1) == 0 {
		bytes := s.model.MemoryUsage()
		_ = s.model.Close()
		s.logger.LogModelRelease(s.model.Name, bytes)
	}
}

// Engine is a translation engine. It starts Uninitialized; Init loads a
// model and makes it Ready; Dispose makes it Disposed for good.
//
// All methods are safe for concurrent use. Reads of the feature list and
// translations never block each other.
type Engine struct {
	opts     options
	rc       *resource.Controller
	sessions *session.Table

	// mu serialises Init and Dispose.
	mu      sync.Mutex
	state   atomic.Int32
	current atomic.Pointer[snapshot]
}

// New returns an Uninitialized engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)
	return &Engine{
		opts: o,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:   o.memoryLimit,
			MaxSearches:        o.maxConcurrency,
			IOLimitBytesPerSec: o.loadRateLimit,
		}),
		sessions: session.NewTable(o.clock),
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Init loads the model described by the manifest (or CURRENT pointer) at
// path and makes the engine Ready.
//
// Without WithStore, path names a local file; artifacts are resolved
// relative to the manifest's directory. On failure the engine stays
// Uninitialized and Init may be retried.
func (e *Engine) Init(ctx context.Context, path string) (err error) {
	start := e.opts.clock()
	var features int
	defer func() {
		d := e.opts.clock().Sub(start)
		e.opts.metricsCollector.RecordInit(d, err)
		e.opts.logger.LogInit(ctx, path, features, d, err)
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	if st := e.State(); st != Uninitialized {
		return fmt.Errorf("%w: init while %s", ErrNotReady, st)
	}

	if err := ctx.Err(); err != nil {
		return &InitializationError{Path: path, cause: err}
	}

	store, name, err := e.resolveStore(path)
	if err != nil {
		return &InitializationError{Path: path, cause: err}
	}

	m, err := modelstore.Load(ctx, store, name, e.rc)
	if err != nil {
		return &InitializationError{Path: path, cause: err}
	}

	searcher := e.opts.searcher
	if searcher == nil {
		searcher = &decoderSearcher{decoder: search.New(m)}
	}

	features = m.Registry.Len()
	e.current.Store(newSnapshot(m, searcher, e.opts.logger))
	e.state.Store(int32(Ready))
	return nil
}

func (e *Engine) resolveStore(path string) (blobstore.Store, string, error) {
	if path == "" {
		return nil, "", errors.New("empty model path")
	}
	if e.opts.store != nil {
		return e.opts.store, path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	return blobstore.NewLocalStore(filepath.Dir(abs)), filepath.Base(abs), nil
}

// Dispose invalidates every session and releases the engine's hold on the
// model; the model is freed once in-flight translations finish. Dispose is
// idempotent and never fails.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.State() == Disposed {
		return
	}
	e.state.Store(int32(Disposed))

	invalidated := e.sessions.Clear()
	if snap := e.current.Swap(nil); snap != nil {
		snap.decRef()
	}
	e.opts.logger.LogDispose(context.Background(), invalidated)
}

// acquire returns the current snapshot with an extra reference, which the
// caller must drop with decRef.
func (e *Engine) acquire() (*snapshot, error) {
	if e.State() != Ready {
		return nil, ErrNotReady
	}
	snap := e.current.Load()
	if snap == nil || !snap.tryIncRef() {
		return nil, ErrNotReady
	}
	return snap, nil
}
