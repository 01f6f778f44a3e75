// Package resource implements the engine-wide resource controller.
//
// The controller manages three resource types:
//
//   - Memory: model bytes held by loaded artifacts (non-blocking, fail-fast)
//   - Concurrency: slots for concurrent searches
//   - IO: a token bucket throttling model loading
//
// # Memory Management
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded
// immediately when the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded - the model does not fit
//	}
//	defer rc.ReleaseMemory(size)
//
// # Search Slots
//
//	rc := resource.NewController(resource.Config{MaxSearches: 4})
//
//	if err := rc.AcquireSearch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseSearch()
//
// # IO Rate Limiting
//
// The controller satisfies blobstore.Throttle, so artifact reads can be
// charged against the IO limit:
//
//	data, release, err := blobstore.ReadAll(ctx, store, name, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
