// Package model defines the data types shared by the smtgo engine, its search
// subsystem and callers.
//
// # Identity Types
//
//   - SessionID: Opaque 64-bit handle for a weight-override session
//   - NoSession: Sentinel SessionID meaning "use engine defaults"
//
// # Data Types
//
//   - Feature: Scoring feature descriptor with its default weight vector
//   - Weights: Partial map from feature name to replacement weight vector
//   - Hypothesis: Candidate translation with score breakdown and alignment
//   - Result: Ranked, bounded n-best list returned by a translation
//
// Score breakdowns are always ordered like the engine's feature list, which
// is fixed for the lifetime of a loaded model.
package model
