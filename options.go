package smtgo

import (
	"log/slog"
	"time"

	"github.com/hupe1980/smtgo/blobstore"
)

type options struct {
	store            blobstore.Store
	searcher         Searcher
	metricsCollector MetricsCollector
	logger           *Logger
	maxConcurrency   int64
	memoryLimit      int64
	loadRateLimit    int64
	clock            func() time.Time
}

// Option configures an Engine.
type Option func(*options)

// WithStore sets the store that Init resolves model paths against.
//
// By default paths are resolved against the local filesystem: absolute
// paths as-is, relative paths from the working directory.
func WithStore(store blobstore.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithSearcher replaces the built-in beam decoder. The searcher is used for
// every model the engine loads.
func WithSearcher(s Searcher) Option {
	return func(o *options) {
		o.searcher = s
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &smtgo.BasicMetricsCollector{}
//	e := smtgo.New(smtgo.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Translations: %d, Avg latency: %dns\n", stats.TranslateCount, stats.TranslateAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := smtgo.NewJSONLogger(slog.LevelInfo)
//	e := smtgo.New(smtgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMaxConcurrency bounds the number of searches running at once.
// Translate calls beyond the bound wait for a free slot or their context.
// If n <= 0, searches are unbounded (the default).
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = int64(max(n, 0))
	}
}

// WithMemoryLimit caps the decoded size of the loaded model.
// Init fails if the model does not fit. If bytes <= 0, memory is only tracked.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = max(bytes, 0)
	}
}

// WithLoadRateLimit throttles model artifact reads to bytesPerSec.
// Memory-mapped local artifacts are not throttled.
func WithLoadRateLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.loadRateLimit = max(bytesPerSec, 0)
	}
}

// WithClock overrides the time source used for session timestamps and
// latency metrics.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		clock:            time.Now,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
