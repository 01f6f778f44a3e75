package testutil

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/smtgo/model"
)

// RNG draws reproducible random sentences and weight overrides.
// It is safe for concurrent use.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// NewRNG returns an RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Sentence returns between 1 and maxLen words drawn uniformly from vocab.
func (r *RNG) Sentence(vocab []string, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	words := make([]string, 1+r.rand.Intn(maxLen))
	for i := range words {
		words[i] = vocab[r.rand.Intn(len(vocab))]
	}
	return strings.Join(words, " ")
}

// Weights returns a full override for features with every value in [-1, 1).
func (r *RNG) Weights(features []model.Feature) model.Weights {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := make(model.Weights, len(features))
	for _, f := range features {
		v := make([]float32, f.Arity)
		for i := range v {
			v[i] = r.rand.Float32()*2 - 1
		}
		w[f.Name] = v
	}
	return w
}
