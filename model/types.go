package model

import (
	"fmt"
	"slices"
	"time"
)

// SessionID is the opaque handle of a session created by the engine.
// Identifiers are never reused within one engine.
type SessionID uint64

// NoSession selects the engine's default weights.
const NoSession SessionID = 0

// String returns a string representation of the SessionID.
func (id SessionID) String() string {
	if id == NoSession {
		return "Session(none)"
	}
	return fmt.Sprintf("Session(%d)", uint64(id))
}

// Feature describes a scoring feature of the loaded model.
type Feature struct {
	// Name is the unique, stable identifier of the feature.
	Name string
	// Arity is the number of weight dimensions the feature contributes.
	Arity int
	// Defaults is the default weight vector (len == Arity).
	Defaults []float32
	// Tunable reports whether the weights are meant to be tuned.
	Tunable bool
	// Stateless reports whether the feature scores a phrase in isolation.
	Stateless bool
}

// Clone returns a deep copy of the feature.
func (f Feature) Clone() Feature {
	f.Defaults = slices.Clone(f.Defaults)
	return f
}

// Weights maps feature names to replacement weight vectors.
// Features absent from the map keep their current value.
type Weights map[string][]float32

// Clone returns a deep copy of the weights.
func (w Weights) Clone() Weights {
	if w == nil {
		return nil
	}
	out := make(Weights, len(w))
	for name, vec := range w {
		out[name] = slices.Clone(vec)
	}
	return out
}

// Session is a live weight-override session.
type Session struct {
	ID        SessionID
	Overrides Weights
	CreatedAt time.Time
}

// FeatureScore is the unweighted score a feature assigned to a hypothesis.
type FeatureScore struct {
	Feature string
	Scores  []float32
}

// PhraseAlignment links a source span to the target span it produced.
// Spans are half-open token ranges.
type PhraseAlignment struct {
	SourceStart, SourceEnd int
	TargetStart, TargetEnd int
}

// Hypothesis is a candidate translation.
type Hypothesis struct {
	// Text is the target sentence.
	Text string
	// Score is the aggregate weighted score (higher is better).
	Score float32
	// Scores is the per-feature breakdown, in feature list order.
	Scores []FeatureScore
	// Alignment is the phrase segmentation used to build Text.
	Alignment []PhraseAlignment
}

// Result is a ranked n-best list.
type Result struct {
	// Hypotheses are sorted by Score descending; ties keep generation order.
	Hypotheses []Hypothesis
}

// Best returns the top hypothesis.
func (r *Result) Best() (Hypothesis, bool) {
	if r == nil || len(r.Hypotheses) == 0 {
		return Hypothesis{}, false
	}
	return r.Hypotheses[0], true
}
