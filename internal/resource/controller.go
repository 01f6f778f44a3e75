package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a model does not fit the
// configured memory budget.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits. A zero field means unlimited.
type Config struct {
	// MemoryLimitBytes caps the decoded size of loaded model artifacts.
	MemoryLimitBytes int64
	// MaxSearches caps the number of decodes running at once.
	MaxSearches int64
	// IOLimitBytesPerSec caps the read throughput while loading artifacts.
	IOLimitBytesPerSec int64
}

// gauge counts units in use, optionally bounded by a weighted semaphore.
type gauge struct {
	limit int64
	sem   *semaphore.Weighted
	used  atomic.Int64
}

func newGauge(limit int64) *gauge {
	g := &gauge{limit: limit}
	if limit > 0 {
		g.sem = semaphore.NewWeighted(limit)
	}
	return g
}

func (g *gauge) tryAcquire(n int64) bool {
	if g.sem != nil && !g.sem.TryAcquire(n) {
		return false
	}
	g.used.Add(n)
	return true
}

func (g *gauge) acquire(ctx context.Context, n int64) error {
	if g.sem != nil {
		if err := g.sem.Acquire(ctx, n); err != nil {
			return err
		}
	}
	g.used.Add(n)
	return nil
}

func (g *gauge) release(n int64) {
	g.used.Add(-n)
	if g.sem != nil {
		g.sem.Release(n)
	}
}

// Controller enforces the engine-wide limits on model memory, concurrent
// decodes and artifact IO. All methods are no-ops on a nil Controller.
type Controller struct {
	memory   *gauge
	searches *gauge
	io       *rate.Limiter
}

// NewController returns a Controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{
		memory:   newGauge(cfg.MemoryLimitBytes),
		searches: newGauge(cfg.MaxSearches),
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.io = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireMemory charges bytes against the memory limit. It never blocks: a
// model either fits or loading fails with ErrMemoryLimitExceeded.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if !c.memory.tryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}
	return nil
}

// ReleaseMemory returns bytes charged by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	c.memory.release(bytes)
}

// MemoryUsage returns the bytes currently charged.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memory.used.Load()
}

// MemoryLimit returns the memory limit, or 0 when unlimited.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.memory.limit
}

// AcquireSearch blocks until a decode slot is free or ctx is done.
func (c *Controller) AcquireSearch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.searches.acquire(ctx, 1)
}

// ReleaseSearch frees a slot taken by AcquireSearch.
func (c *Controller) ReleaseSearch() {
	if c == nil {
		return
	}
	c.searches.release(1)
}

// ActiveSearches returns the number of decodes holding a slot.
func (c *Controller) ActiveSearches() int64 {
	if c == nil {
		return 0
	}
	return c.searches.used.Load()
}

// AcquireIO waits until bytes may be read. Requests larger than one second
// of throughput are split into burst-sized waits.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.io == nil {
		return nil
	}
	burst := c.io.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.io.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
