// Package feature implements the immutable feature registry of a loaded model.
//
// The registry fixes the canonical feature order: every dense weight vector
// and every score breakdown produced by the engine is laid out as the
// concatenation of the features' dimensions in registry order.
//
// Weight resolution is an explicit merge over immutable layers:
//
//	defaults -> session overrides -> request overrides
//
// Later layers win. Merge and Resolve never mutate their inputs.
package feature
