package smtgo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/testutil"
)

// toyDim is the dense dimension of the toy model.
const toyDim = 9

// stubSearcher returns canned candidates and records its calls.
type stubSearcher struct {
	fn func(ctx context.Context, req SearchRequest) ([]Candidate, error)

	calls atomic.Int64
	mu    sync.Mutex
	last  SearchRequest
}

func (s *stubSearcher) Search(ctx context.Context, req SearchRequest) ([]Candidate, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.last = req
	s.mu.Unlock()

	if s.fn == nil {
		return []Candidate{{Text: "stub", Scores: make([]float32, toyDim)}}, nil
	}
	return s.fn(ctx, req)
}

func (s *stubSearcher) lastRequest() SearchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// scores returns a toy-sized score vector with the given values at the
// given offsets.
func scores(kv ...float32) []float32 {
	v := make([]float32, toyDim)
	for i := 0; i+1 < len(kv); i += 2 {
		v[int(kv[i])] = kv[i+1]
	}
	return v
}

// newToyEngine returns a Ready engine over the toy model.
func newToyEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	store, name := testutil.ToyStore(t)
	e := New(append([]Option{WithStore(store)}, opts...)...)
	require.NoError(t, e.Init(t.Context(), name))
	t.Cleanup(e.Dispose)
	return e
}

func defaultVector() []float32 {
	return []float32{0.2, 0.2, 0.2, 0.2, 0.5, 0.3, -1, 0.2, 1}
}
