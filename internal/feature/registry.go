package feature

import (
	"fmt"
	"slices"

	"github.com/hupe1980/smtgo/model"
)

// Registry is the ordered, immutable catalog of features.
// All methods are safe for concurrent use without locking.
type Registry struct {
	features []model.Feature
	index    map[string]int
	offsets  []int
	dim      int
}

// NewRegistry validates features and builds a registry.
// The input is deep-copied; later changes to it are not observed.
func NewRegistry(features []model.Feature) (*Registry, error) {
	if len(features) == 0 {
		return nil, ErrEmpty
	}

	r := &Registry{
		features: make([]model.Feature, len(features)),
		index:    make(map[string]int, len(features)),
		offsets:  make([]int, len(features)),
	}

	for i, f := range features {
		if f.Name == "" {
			return nil, fmt.Errorf("feature %d: empty name", i)
		}
		if _, dup := r.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, f.Name)
		}
		if f.Arity <= 0 {
			return nil, fmt.Errorf("feature %q: arity must be positive, got %d", f.Name, f.Arity)
		}
		if len(f.Defaults) != f.Arity {
			return nil, &ArityError{Name: f.Name, Expected: f.Arity, Actual: len(f.Defaults)}
		}

		r.features[i] = f.Clone()
		r.index[f.Name] = i
		r.offsets[i] = r.dim
		r.dim += f.Arity
	}

	return r, nil
}

// Len returns the number of features.
func (r *Registry) Len() int { return len(r.features) }

// Dimension returns the sum of all feature arities.
func (r *Registry) Dimension() int { return r.dim }

// Features returns a deep copy of the ordered feature list.
func (r *Registry) Features() []model.Feature {
	out := make([]model.Feature, len(r.features))
	for i, f := range r.features {
		out[i] = f.Clone()
	}
	return out
}

// Index returns the position of the named feature.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// At returns the feature at position i. The returned value shares memory
// with the registry and must not be modified.
func (r *Registry) At(i int) model.Feature { return r.features[i] }

// Offset returns the start of feature i in a dense vector.
func (r *Registry) Offset(i int) int { return r.offsets[i] }

// Defaults returns a copy of the named feature's default weights.
func (r *Registry) Defaults(name string) ([]float32, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, &UnknownError{Name: name}
	}
	return slices.Clone(r.features[i].Defaults), nil
}

// Validate checks that every name in w is registered and every vector has
// the feature's arity. Names are checked in sorted order so the reported
// error is deterministic.
func (r *Registry) Validate(w model.Weights) error {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		i, ok := r.index[name]
		if !ok {
			return &UnknownError{Name: name}
		}
		if got, want := len(w[name]), r.features[i].Arity; got != want {
			return &ArityError{Name: name, Expected: want, Actual: got}
		}
	}
	return nil
}

// DefaultVector returns the dense default weight vector.
func (r *Registry) DefaultVector() []float32 {
	vec := make([]float32, 0, r.dim)
	for _, f := range r.features {
		vec = append(vec, f.Defaults...)
	}
	return vec
}

// Split cuts a dense vector into per-feature scores in registry order.
// The returned slices are copies.
func (r *Registry) Split(dense []float32) ([]model.FeatureScore, error) {
	if len(dense) != r.dim {
		return nil, fmt.Errorf("score vector has %d dimensions, want %d", len(dense), r.dim)
	}
	out := make([]model.FeatureScore, len(r.features))
	for i, f := range r.features {
		off := r.offsets[i]
		out[i] = model.FeatureScore{
			Feature: f.Name,
			Scores:  slices.Clone(dense[off : off+f.Arity]),
		}
	}
	return out, nil
}
